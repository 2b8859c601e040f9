package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getmockd/mockrules/pkg/logging"
	"github.com/getmockd/mockrules/pkg/rules"
)

// File is a loaded rule file.
type File struct {
	Path    string
	Format  rules.Format
	RuleSet *rules.RuleSet
}

// Result is the outcome of loading several rule files.
type Result struct {
	// Files are the loaded files in load order.
	Files []*File

	// Rules are the rules of every file, in load order.
	Rules []rules.Rule

	// Sources maps each rule ID to the file it was loaded from.
	Sources map[string]string
}

// Loader reads rule set files.
type Loader struct {
	catalog   *rules.Catalog
	log       *slog.Logger
	expandEnv bool
	baseDir   string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCatalog sets the catalog parts are resolved through. Defaults to
// rules.Default.
func WithCatalog(c *rules.Catalog) LoaderOption {
	return func(l *Loader) { l.catalog = c }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) { l.log = logging.Component(logging.OrNop(log), "config") }
}

// WithEnvExpansion enables or disables ${VAR} expansion in file contents.
// Enabled by default.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) { l.expandEnv = enabled }
}

// WithBaseDir sets the directory relative paths and patterns are resolved
// against. Defaults to the working directory.
func WithBaseDir(dir string) LoaderOption {
	return func(l *Loader) { l.baseDir = dir }
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		catalog:   rules.Default,
		log:       logging.Nop(),
		expandEnv: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.baseDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			l.baseDir = cwd
		} else {
			l.baseDir = "."
		}
	}
	return l
}

// LoadFile reads a rule set from a JSON or YAML file. The format is
// detected from the extension (.yaml and .yml are YAML, anything else is
// JSON). Errors are *FileError values carrying the path.
func (l *Loader) LoadFile(path string) (*File, error) {
	path = ResolvePath(l.baseDir, path)

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	format, ok := rules.FormatFromPath(path)
	if !ok {
		format = rules.FormatJSON
	}

	rs, err := l.Parse(data, format)
	if err != nil {
		return nil, &FileError{Path: path, Message: "invalid rule file", Err: err}
	}

	l.log.Debug("loaded rule file", "path", path, "format", format, "rules", len(rs.Rules))
	return &File{Path: path, Format: format, RuleSet: rs}, nil
}

// Parse decodes a rule set document. The document is checked against the
// rule set schema before its parts are decoded.
func (l *Loader) Parse(data []byte, format rules.Format) (*rules.RuleSet, error) {
	if l.expandEnv {
		data = []byte(ExpandEnvVars(string(data)))
	}

	doc := data
	switch format {
	case rules.FormatJSON:
	case rules.FormatYAML:
		converted, err := rules.YAMLToJSON(data)
		if err != nil {
			return nil, err
		}
		doc = converted
	default:
		return nil, fmt.Errorf("%w: %q", rules.ErrUnsupportedFormat, format)
	}

	if err := ValidateSchema(doc); err != nil {
		return nil, err
	}
	return l.catalog.DecodeRuleSet(doc, rules.FormatJSON)
}

// LoadFiles loads every file matching the given paths or glob patterns.
// Patterns support ** via doublestar. Matches of each pattern are loaded
// in sorted order and a file matched twice is loaded once. A plain path
// that does not exist is an error; a pattern that matches nothing is not,
// unless no pattern matches anything. Rule IDs must be unique across all
// files.
func (l *Loader) LoadFiles(patterns ...string) (*Result, error) {
	result := &Result{Sources: make(map[string]string)}
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := l.expand(pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			if seen[path] {
				continue
			}
			seen[path] = true

			f, err := l.LoadFile(path)
			if err != nil {
				return nil, err
			}
			if err := result.add(f); err != nil {
				return nil, err
			}
		}
	}

	if len(result.Files) == 0 && len(patterns) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, strings.Join(patterns, ", "))
	}
	return result, nil
}

func (r *Result) add(f *File) error {
	for _, rule := range f.RuleSet.Rules {
		ruleID := rule.Base().ID
		if ruleID != "" {
			if prev, dup := r.Sources[ruleID]; dup {
				return &FileError{
					Path:    f.Path,
					Message: fmt.Sprintf("rule %q already defined in %s", ruleID, prev),
					Err:     ErrDuplicateRuleID,
				}
			}
			r.Sources[ruleID] = f.Path
		}
		r.Rules = append(r.Rules, rule)
	}
	r.Files = append(r.Files, f)
	return nil
}

// expand resolves a path or glob pattern to the files it names.
func (l *Loader) expand(pattern string) ([]string, error) {
	resolved := ResolvePath(l.baseDir, pattern)
	if !hasMeta(pattern) {
		return []string{filepath.Clean(resolved)}, nil
	}

	matches, err := expandGlob(resolved)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern %s: %w", pattern, err)
	}
	sort.Strings(matches)

	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, filepath.Clean(m))
		}
	}
	if len(files) == 0 {
		l.log.Warn("pattern matched no rule files", "pattern", pattern)
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob expands a glob pattern to a list of matching file paths.
// Uses doublestar for ** support, falls back to filepath.Glob for simple patterns.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") || strings.Contains(pattern, "{") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, &FileError{Path: path, Message: "cannot load", Err: ErrFileNotFound}
		case os.IsPermission(err):
			return nil, &FileError{Path: path, Message: "cannot load", Err: ErrPermissionDenied}
		default:
			return nil, &FileError{Path: path, Message: "failed to stat file", Err: err}
		}
	}
	if info.IsDir() {
		return nil, &FileError{Path: path, Message: "cannot load", Err: ErrIsDirectory}
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &FileError{Path: path, Message: "cannot load", Err: ErrPermissionDenied}
		}
		return nil, &FileError{Path: path, Message: "failed to open file", Err: err}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &FileError{Path: path, Message: "failed to read file", Err: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &FileError{Path: path, Message: "cannot load", Err: ErrEmptyFile}
	}
	return data, nil
}

// SaveFile writes a rule set to a file using atomic rename. The format is
// determined by file extension (.yaml, .yml for YAML, otherwise JSON).
// Creates parent directories if they don't exist.
func SaveFile(path string, rs *rules.RuleSet) error {
	if rs == nil {
		return errors.New("rule set cannot be nil")
	}

	format, ok := rules.FormatFromPath(path)
	if !ok {
		format = rules.FormatJSON
	}
	data, err := rules.EncodeRuleSet(rs, format)
	if err != nil {
		return fmt.Errorf("failed to encode rule set: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Validate validates every loaded rule against serverVersion and returns
// one *RuleError per invalid rule.
func (l *Loader) Validate(res *Result, serverVersion string) []*RuleError {
	var errs []*RuleError
	for _, f := range res.Files {
		for i, r := range f.RuleSet.Rules {
			if err := l.catalog.Validate(r, serverVersion); err != nil {
				errs = append(errs, &RuleError{Path: f.Path, Index: i, RuleID: r.Base().ID, Err: err})
			}
		}
	}
	return errs
}
