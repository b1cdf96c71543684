// Package workspace keeps the parsed grammar files of a directory tree and
// answers editor queries about them.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/yash/config"
	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/lex"
	"github.com/dhamidi/yash/yacc"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("yash.workspace")
}

type Language int

const (
	LanguageUnknown Language = iota
	LanguageYacc
	LanguageLex
)

var extensions = map[string]Language{
	".y":     LanguageYacc,
	".yy":    LanguageYacc,
	".ypp":   LanguageYacc,
	".yacc":  LanguageYacc,
	".bison": LanguageYacc,
	".l":     LanguageLex,
	".ll":    LanguageLex,
	".lex":   LanguageLex,
	".flex":  LanguageLex,
}

// LanguageOf picks the grammar language from the file extension.
func LanguageOf(path string) Language {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

func (l Language) String() string {
	switch l {
	case LanguageYacc:
		return "yacc"
	case LanguageLex:
		return "lex"
	}
	return "unknown"
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// File is one parsed grammar. Exactly one of Yacc and Lex is set.
type File struct {
	Path     string
	Content  []byte
	Language Language
	Lines    *grammar.LineIndex
	Yacc     *yacc.Document
	Lex      *lex.Document
}

// Parse reads content as the grammar language of path.
func Parse(path string, content []byte, settings config.Settings) (*File, error) {
	f := &File{
		Path:     path,
		Content:  content,
		Language: LanguageOf(path),
	}
	text := string(content)
	switch f.Language {
	case LanguageYacc:
		f.Yacc = yacc.Parse(text, settings.YaccOptions()...)
	case LanguageLex:
		f.Lex = lex.Parse(text, settings.LexOptions()...)
	default:
		return nil, fmt.Errorf("%s: not a yacc or lex file", path)
	}
	f.Lines = grammar.NewLineIndex(text)
	return f, nil
}

func (f *File) Text() string {
	return string(f.Content)
}

func (f *File) Problems() grammar.Problems {
	switch {
	case f.Yacc != nil:
		return f.Yacc.Problems
	case f.Lex != nil:
		return f.Lex.Problems
	}
	return nil
}

// Document returns the parsed document for encoding.
func (f *File) Document() any {
	if f.Yacc != nil {
		return f.Yacc
	}
	return f.Lex
}

type Workspace struct {
	mu       sync.RWMutex
	rootDir  string
	settings config.Settings
	files    map[string]*File
}

func New(rootDir string, settings config.Settings) *Workspace {
	return &Workspace{
		rootDir:  rootDir,
		settings: settings,
		files:    make(map[string]*File),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) Settings() config.Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}

// SetSettings replaces the settings and parses every known file again.
func (w *Workspace) SetSettings(settings config.Settings) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings = settings
	for path, f := range w.files {
		if err := w.updateFileLocked(path, f.Content); err != nil {
			logger().Warningf("reparse %s: %s", path, err)
		}
	}
}

// ScanAll parses every grammar file below the root directory. Hidden
// directories are skipped.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if LanguageOf(path) != LanguageUnknown {
			if err := w.ScanFile(path); err != nil {
				logger().Warningf("%s", err)
			}
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scan file: %w", err)
	}
	return w.UpdateFile(path, content)
}

func (w *Workspace) UpdateFile(path string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.updateFileLocked(path, content)
}

func (w *Workspace) updateFileLocked(path string, content []byte) error {
	f, err := Parse(path, content, w.settings)
	if err != nil {
		return err
	}
	logger().Debugf("parsed %s: %d problems", path, len(f.Problems()))
	w.files[path] = f
	return nil
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths lists the known files in lexical order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
