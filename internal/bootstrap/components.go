package bootstrap

import (
	"path/filepath"

	"github.com/jonesrussell/gotrends/internal/config"
	"github.com/jonesrussell/gotrends/internal/configstore"
	"github.com/jonesrussell/gotrends/internal/reports"
)

// SetupStore builds the configuration store from the configured paths. The
// default template candidates are looked up next to the active files first,
// then in the template directory.
func SetupStore(cfg *config.Config) *configstore.Store {
	templateDir := cfg.Paths.TemplateDir
	return configstore.New(
		cfg.Paths.AppConfig,
		cfg.Paths.Words,
		[]string{
			filepath.Join(templateDir, filepath.Base(cfg.Paths.AppConfig)),
			cfg.Paths.AppConfig + ".default",
		},
		[]string{
			filepath.Join(templateDir, filepath.Base(cfg.Paths.Words)),
			cfg.Paths.Words + ".default",
		},
	)
}

// SetupScanner builds the report scanner. The output directory follows the
// crawler's own configuration unless the service config pins an override.
func SetupScanner(cfg *config.Config) *reports.Scanner {
	baseDir := filepath.Dir(filepath.Dir(cfg.Paths.AppConfig))
	resolver := reports.NewResolver(cfg.Paths.AppConfig, baseDir, cfg.Paths.OutputDir)
	return reports.NewScanner(resolver)
}
