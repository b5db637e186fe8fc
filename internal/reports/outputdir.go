// Package reports locates the crawler's output directory and scans it for
// generated report files.
package reports

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Resolver resolves the crawler's output directory. Resolution order:
//
//  1. an explicit override (normally the OUTPUT_DIR environment variable)
//  2. storage.local.data_dir from the crawler configuration, relative paths
//     anchored at the base directory
//  3. "output" under the base directory
//
// The config-derived result is cached together with the config file's
// modification time and recomputed only when a newer mtime is observed, so
// operator edits take effect without a restart and unchanged configs cost one
// stat per call.
type Resolver struct {
	configPath string
	baseDir    string
	override   string

	mu     sync.Mutex
	cached resolved
}

type resolved struct {
	dir    string
	mtime  time.Time
	loaded bool
}

const defaultDataDir = "output"

// NewResolver creates a Resolver. override may be empty; baseDir anchors
// relative data_dir values and the fallback.
func NewResolver(configPath, baseDir, override string) *Resolver {
	return &Resolver{
		configPath: configPath,
		baseDir:    baseDir,
		override:   strings.TrimSpace(override),
	}
}

// Dir returns the resolved output directory.
func (r *Resolver) Dir() string {
	if r.override != "" {
		return r.override
	}

	mtime := r.configMtime()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached.loaded && r.cached.mtime.Equal(mtime) {
		return r.cached.dir
	}

	dir := r.resolveFromConfig()
	r.cached = resolved{dir: dir, mtime: mtime, loaded: true}
	return dir
}

func (r *Resolver) configMtime() time.Time {
	info, err := os.Stat(r.configPath)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (r *Resolver) resolveFromConfig() string {
	dataDir := defaultDataDir
	if raw, ok := r.dataDirFromConfig(); ok {
		dataDir = raw
	}
	if filepath.IsAbs(dataDir) {
		return dataDir
	}
	return filepath.Join(r.baseDir, dataDir)
}

func (r *Resolver) dataDirFromConfig() (string, bool) {
	data, err := os.ReadFile(r.configPath)
	if err != nil {
		return "", false
	}

	var cfg struct {
		Storage struct {
			Local struct {
				DataDir string `yaml:"data_dir"`
			} `yaml:"local"`
		} `yaml:"storage"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", false
	}

	dataDir := strings.TrimSpace(cfg.Storage.Local.DataDir)
	if dataDir == "" {
		return "", false
	}
	return dataDir, true
}
