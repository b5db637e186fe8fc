// Package configstore manages the crawler's operator-facing configuration
// files: the YAML configuration document and the plain-text keyword list.
// Every destructive write is preceded by a timestamped backup of the prior
// on-disk content, and YAML mutations round-trip through a node tree so
// comments, key order and quoting survive edits.
//
// The store performs plain blocking file I/O with no internal locking; it
// assumes at most one writer per file path. Racing external writers produce a
// last-writer-wins outcome.
package configstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// backupTimestampLayout gives sortable seconds-resolution backup names.
	backupTimestampLayout = "20060102-150405"

	yamlIndent = 2

	fileMode = 0o644
	dirMode  = 0o755
)

// Store manages the active configuration document and keyword list, each with
// an ordered list of default template candidates (first existing file wins).
type Store struct {
	configPath     string
	wordsPath      string
	configDefaults []string
	wordsDefaults  []string

	// now is injectable so tests get stable backup names.
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store for the given active file paths and default template
// candidate lists.
func New(configPath, wordsPath string, configDefaults, wordsDefaults []string, opts ...Option) *Store {
	s := &Store{
		configPath:     configPath,
		wordsPath:      wordsPath,
		configDefaults: configDefaults,
		wordsDefaults:  wordsDefaults,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConfigPath returns the active configuration file path.
func (s *Store) ConfigPath() string { return s.configPath }

// WordsPath returns the active keyword list file path.
func (s *Store) WordsPath() string { return s.wordsPath }

// ReadConfigText returns the on-disk configuration text, or "" when the file
// does not exist yet.
func (s *Store) ReadConfigText() (string, error) {
	return readTextOrEmpty(s.configPath)
}

// ReadWordsText returns the on-disk keyword list text, or "" when the file
// does not exist yet.
func (s *Store) ReadWordsText() (string, error) {
	return readTextOrEmpty(s.wordsPath)
}

// DefaultConfigText returns the first existing default configuration
// template. The boolean reports whether any candidate existed.
func (s *Store) DefaultConfigText() (string, bool, error) {
	return firstExistingText(s.configDefaults)
}

// DefaultWordsText returns the first existing default keyword list template.
func (s *Store) DefaultWordsText() (string, bool, error) {
	return firstExistingText(s.wordsDefaults)
}

// LoadConfig parses the active configuration into a YAML node tree, falling
// back to the first default candidate and finally to an empty mapping. The
// "not yet configured" case is not an error.
func (s *Store) LoadConfig() (*yaml.Node, error) {
	text, err := s.ReadConfigText()
	if err != nil {
		return nil, err
	}
	if text == "" {
		text, _, err = s.DefaultConfigText()
		if err != nil {
			return nil, err
		}
	}
	if text == "" {
		return emptyMappingDocument(), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(doc.Content) == 0 {
		return emptyMappingDocument(), nil
	}
	return &doc, nil
}

// DumpYAML serializes a node tree back to text, preserving the tree's
// comments and styles.
func (s *Store) DumpYAML(doc *yaml.Node) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("close encoder: %w", err)
	}
	return buf.String(), nil
}

// ConfigPlain decodes the active configuration into generic Go values for
// read-only consumers.
func (s *Store) ConfigPlain() (map[string]any, error) {
	doc, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}
	root := documentRoot(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return map[string]any{}, nil
	}

	var plain map[string]any
	if err := root.Decode(&plain); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if plain == nil {
		plain = map[string]any{}
	}
	return plain, nil
}

// PatchConfig deep-merges patch into the active configuration document and
// writes the result back with a backup of the prior content. Mapping values
// merge recursively; sequences and scalars replace wholesale.
func (s *Store) PatchConfig(patch map[string]any) error {
	if patch == nil {
		return ErrMalformedPatch
	}

	doc, err := s.LoadConfig()
	if err != nil {
		return err
	}
	root := documentRoot(doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return ErrInvalidDocument
	}

	var patchNode yaml.Node
	if err := patchNode.Encode(patch); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPatch, err)
	}
	if patchNode.Kind != yaml.MappingNode {
		return ErrMalformedPatch
	}

	deepMerge(root, &patchNode)

	content, err := s.DumpYAML(doc)
	if err != nil {
		return err
	}
	return s.writeWithBackup(s.configPath, content)
}

// ReplaceConfigText validates the given text parses to a non-empty mapping
// and writes it verbatim, with a backup of the prior content.
func (s *Store) ReplaceConfigText(content string) error {
	if err := validateMappingDocument(content); err != nil {
		return err
	}
	return s.writeWithBackup(s.configPath, content)
}

// ReplaceWordsText writes the keyword list verbatim, with a backup of the
// prior content. The keyword list has no structure to validate.
func (s *Store) ReplaceWordsText(content string) error {
	return s.writeWithBackup(s.wordsPath, content)
}

// ResetConfig restores the configuration from its first existing default
// template. The template must parse to a mapping.
func (s *Store) ResetConfig() error {
	text, ok, err := s.DefaultConfigText()
	if err != nil {
		return err
	}
	if !ok || text == "" {
		return fmt.Errorf("%w: config", ErrDefaultNotFound)
	}
	if err := validateMappingDocument(text); err != nil {
		return err
	}
	return s.writeWithBackup(s.configPath, text)
}

// ResetWords restores the keyword list from its first existing default
// template.
func (s *Store) ResetWords() error {
	text, ok, err := s.DefaultWordsText()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: keyword list", ErrDefaultNotFound)
	}
	return s.writeWithBackup(s.wordsPath, text)
}

// writeWithBackup copies the destination's current content to a sibling
// backup file before overwriting. The backup is unconditional for existing
// files; it is the only recovery mechanism the store offers, so it happens
// even when the new content is identical to the old.
func (s *Store) writeWithBackup(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	prior, err := os.ReadFile(path)
	switch {
	case err == nil:
		backupPath := fmt.Sprintf("%s.bak.%s", path, s.now().Format(backupTimestampLayout))
		if writeErr := os.WriteFile(backupPath, prior, fileMode); writeErr != nil {
			return fmt.Errorf("write backup: %w", writeErr)
		}
	case os.IsNotExist(err):
		// First write, nothing to back up.
	default:
		return fmt.Errorf("read prior content: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), fileMode); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func validateMappingDocument(content string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return ErrInvalidDocument
	}
	return nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

func emptyMappingDocument() *yaml.Node {
	return &yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{
			{Kind: yaml.MappingNode, Tag: "!!map"},
		},
	}
}

func readTextOrEmpty(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

func firstExistingText(candidates []string) (string, bool, error) {
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("read default %s: %w", filepath.Base(candidate), err)
		}
		return string(data), true, nil
	}
	return "", false, nil
}
