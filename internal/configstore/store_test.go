package configstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/gotrends/internal/configstore"
)

const sampleConfig = `# crawler settings
app:
  name: "gotrends" # service name
  interval: 30
storage:
  local:
    data_dir: output
keywords:
  - ai
  - chips
`

type fixture struct {
	dir        string
	configPath string
	wordsPath  string
	store      *configstore.Store
}

func newFixture(t *testing.T, configDefaults, wordsDefaults []string) *fixture {
	t.Helper()
	dir := t.TempDir()

	f := &fixture{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		wordsPath:  filepath.Join(dir, "frequency_words.txt"),
	}

	// An advancing fake clock keeps backup names unique within a test.
	base := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	f.store = configstore.New(f.configPath, f.wordsPath, configDefaults, wordsDefaults,
		configstore.WithClock(clock))
	return f
}

func (f *fixture) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.configPath, []byte(content), 0o644))
}

func (f *fixture) backups(t *testing.T, name string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(f.dir, name+".bak.*"))
	require.NoError(t, err)
	return matches
}

func TestStore_RoundTripPreservesStructure(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, sampleConfig)

	doc, err := f.store.LoadConfig()
	require.NoError(t, err)

	out, err := f.store.DumpYAML(doc)
	require.NoError(t, err)

	// Comments survive.
	assert.Contains(t, out, "# crawler settings")
	assert.Contains(t, out, "# service name")

	// Key order survives.
	assert.Less(t, strings.Index(out, "app:"), strings.Index(out, "storage:"))
	assert.Less(t, strings.Index(out, "storage:"), strings.Index(out, "keywords:"))

	// Values survive.
	var got, want map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &want))
	assert.Equal(t, want, got)
}

func TestStore_PatchDeepMerge(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, "a:\n  b: 1\n  c: 2\n")

	require.NoError(t, f.store.PatchConfig(map[string]any{
		"a": map[string]any{"b": 99},
	}))

	plain, err := f.store.ConfigPlain()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": 99, "c": 2}}, plain)
}

func TestStore_PatchSequenceReplacesWholesale(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, "a:\n  b: 1\n  c: 2\n")

	require.NoError(t, f.store.PatchConfig(map[string]any{
		"a": []any{1, 2},
	}))

	plain, err := f.store.ConfigPlain()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{1, 2}}, plain)
}

func TestStore_PatchAddsNewKeys(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, sampleConfig)

	require.NoError(t, f.store.PatchConfig(map[string]any{
		"notify": map[string]any{"enabled": true},
	}))

	plain, err := f.store.ConfigPlain()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"enabled": true}, plain["notify"])

	// Untouched keys keep their comments across the mutation.
	text, err := f.store.ReadConfigText()
	require.NoError(t, err)
	assert.Contains(t, text, "# crawler settings")
}

func TestStore_PatchRejectsNonMappingRoot(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, "- just\n- a\n- list\n")

	err := f.store.PatchConfig(map[string]any{"a": 1})
	require.ErrorIs(t, err, configstore.ErrInvalidDocument)

	// Aborted mutations leave no backup behind.
	assert.Empty(t, f.backups(t, "config.yaml"))
}

func TestStore_PatchRejectsNilPatch(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, sampleConfig)

	require.ErrorIs(t, f.store.PatchConfig(nil), configstore.ErrMalformedPatch)
}

func TestStore_BackupBeforeWrite(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.writeConfig(t, sampleConfig)

	require.NoError(t, f.store.PatchConfig(map[string]any{"extra": 1}))

	backups := f.backups(t, "config.yaml")
	require.Len(t, backups, 1)

	prior, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, string(prior))

	// A second write backs up the result of the first.
	afterFirst, err := f.store.ReadConfigText()
	require.NoError(t, err)
	require.NoError(t, f.store.PatchConfig(map[string]any{"extra": 2}))

	backups = f.backups(t, "config.yaml")
	require.Len(t, backups, 2)

	newest := backups[0]
	if backups[1] > newest {
		newest = backups[1]
	}
	prior, err = os.ReadFile(newest)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, string(prior))
}

func TestStore_BackupEvenWhenContentIdentical(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.store.ReplaceWordsText("ai\nchips\n"))
	require.NoError(t, f.store.ReplaceWordsText("ai\nchips\n"))

	assert.Len(t, f.backups(t, "frequency_words.txt"), 1)
}

func TestStore_FirstWriteSkipsBackup(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.store.ReplaceWordsText("ai\n"))

	assert.Empty(t, f.backups(t, "frequency_words.txt"))
}

func TestStore_ResetConfig(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.yaml")
	defaultPath := filepath.Join(dir, "default.yaml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  name: fresh\n"), 0o644))

	// First candidate missing, second wins.
	f := newFixture(t, []string{missing, defaultPath}, nil)
	f.writeConfig(t, sampleConfig)

	require.NoError(t, f.store.ResetConfig())

	text, err := f.store.ReadConfigText()
	require.NoError(t, err)
	assert.Equal(t, "app:\n  name: fresh\n", text)
	assert.Len(t, f.backups(t, "config.yaml"), 1)
}

func TestStore_ResetConfigNoDefault(t *testing.T) {
	f := newFixture(t, []string{filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	f.writeConfig(t, sampleConfig)

	require.ErrorIs(t, f.store.ResetConfig(), configstore.ErrDefaultNotFound)

	// Nothing was written.
	text, err := f.store.ReadConfigText()
	require.NoError(t, err)
	assert.Equal(t, sampleConfig, text)
	assert.Empty(t, f.backups(t, "config.yaml"))
}

func TestStore_ResetConfigRejectsInvalidDefault(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yaml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("- not\n- a mapping\n"), 0o644))

	f := newFixture(t, []string{defaultPath}, nil)
	require.ErrorIs(t, f.store.ResetConfig(), configstore.ErrInvalidDocument)
}

func TestStore_ResetWords(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "words.default.txt")
	require.NoError(t, os.WriteFile(defaultPath, []byte("ai\nchips\n"), 0o644))

	f := newFixture(t, nil, []string{defaultPath})
	require.NoError(t, f.store.ResetWords())

	text, err := f.store.ReadWordsText()
	require.NoError(t, err)
	assert.Equal(t, "ai\nchips\n", text)
}

func TestStore_LoadFallsBackToDefaultThenEmpty(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yaml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  name: fallback\n"), 0o644))

	f := newFixture(t, []string{defaultPath}, nil)

	plain, err := f.store.ConfigPlain()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app": map[string]any{"name": "fallback"}}, plain)

	// No file and no default still yields a usable empty document.
	bare := newFixture(t, nil, nil)
	plain, err = bare.store.ConfigPlain()
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestStore_ReplaceConfigTextValidates(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.ErrorIs(t, f.store.ReplaceConfigText("- a\n"), configstore.ErrInvalidDocument)
	require.ErrorIs(t, f.store.ReplaceConfigText(""), configstore.ErrInvalidDocument)
	require.NoError(t, f.store.ReplaceConfigText("a: 1\n"))
}
