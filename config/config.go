// Package config loads the settings that tune how grammars are read.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/yash/lex"
	"github.com/dhamidi/yash/yacc"
	"github.com/dhamidi/yash/yacc/union"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up from the working directory
// towards the file system root.
const FileName = ".yash.yaml"

// Settings tune the parsers.
type Settings struct {
	// FieldName is "last" for C style %union members ("char *name;") or
	// "first" for Go style ones ("name string").
	FieldName   string `yaml:"fieldName"`
	DefaultType string `yaml:"defaultType"`
	MaxNesting  int    `yaml:"maxNesting"`
}

func Default() Settings {
	return Settings{
		FieldName:  union.LastToken.String(),
		MaxNesting: lex.DefaultMaxDepth,
	}
}

// Load reads the settings for the current directory.
func Load() (Settings, error) {
	return LoadFrom(".")
}

// LoadFrom reads the settings file found from dir upwards. Without one the
// defaults are returned.
func LoadFrom(dir string) (Settings, error) {
	path, ok := Find(dir)
	if !ok {
		return Default(), nil
	}
	return ReadFile(path)
}

// Find walks from dir towards the root and returns the first settings
// file it sees.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func ReadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FromMap overrides s with loosely typed values such as the
// initializationOptions an editor sends. Unknown keys are ignored.
func (s Settings) FromMap(m map[string]any) (Settings, error) {
	if v, ok := m["fieldName"]; ok {
		name, err := cast.ToStringE(v)
		if err != nil {
			return s, fmt.Errorf("fieldName: %w", err)
		}
		s.FieldName = name
	}
	if v, ok := m["defaultType"]; ok {
		typ, err := cast.ToStringE(v)
		if err != nil {
			return s, fmt.Errorf("defaultType: %w", err)
		}
		s.DefaultType = typ
	}
	if v, ok := m["maxNesting"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return s, fmt.Errorf("maxNesting: %w", err)
		}
		s.MaxNesting = n
	}
	return s, s.Validate()
}

var ErrFieldName = errors.New(`fieldName must be "first" or "last"`)

func (s Settings) Validate() error {
	if _, err := ParseFieldPosition(s.FieldName); err != nil {
		return err
	}
	if s.MaxNesting < 1 {
		return fmt.Errorf("maxNesting must be positive, got %d", s.MaxNesting)
	}
	return nil
}

// ParseFieldPosition accepts the names printed by union.FieldPosition. An
// empty name selects the C convention.
func ParseFieldPosition(name string) (union.FieldPosition, error) {
	switch name {
	case "", union.LastToken.String():
		return union.LastToken, nil
	case union.FirstToken.String():
		return union.FirstToken, nil
	}
	return union.LastToken, fmt.Errorf("%w, got %q", ErrFieldName, name)
}

func (s Settings) YaccOptions() []yacc.Option {
	pos, _ := ParseFieldPosition(s.FieldName)
	opts := []yacc.Option{yacc.WithFieldNamePosition(pos)}
	if s.DefaultType != "" {
		opts = append(opts, yacc.WithDefaultType(s.DefaultType))
	}
	return opts
}

func (s Settings) LexOptions() []lex.Option {
	return []lex.Option{lex.WithMaxDepth(s.MaxNesting)}
}
