package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/yash/config"
)

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"calc.y", LanguageYacc},
		{"dir/parser.YY", LanguageYacc},
		{"grammar.bison", LanguageYacc},
		{"scan.l", LanguageLex},
		{"scan.flex", LanguageLex},
		{"main.c", LanguageUnknown},
		{"Makefile", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := LanguageOf(tt.path); got != tt.want {
				t.Errorf("LanguageOf(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("calc.y", []byte("%token NUM\n%%\ne: NUM ;\n"), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if f.Yacc == nil || f.Lex != nil {
		t.Fatalf("Parse(calc.y) gave Yacc=%v Lex=%v", f.Yacc, f.Lex)
	}
	if len(f.Problems()) != 0 {
		t.Errorf("Problems = %v, want none", f.Problems())
	}

	f, err = Parse("scan.l", []byte("%%\n{nope} ;\n"), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if f.Lex == nil {
		t.Fatal("Parse(scan.l) did not produce a lex document")
	}
	if len(f.Problems()) != 1 {
		t.Errorf("len(Problems) = %d, want 1", len(f.Problems()))
	}

	if _, err := Parse("notes.txt", nil, config.Default()); err == nil {
		t.Error("Parse(notes.txt) succeeded, want error")
	}
}

func TestWorkspaceFiles(t *testing.T) {
	w := New(t.TempDir(), config.Default())

	if err := w.UpdateFile("b.l", []byte("%%\nx ;\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.UpdateFile("a.y", []byte("%%\ne: ;\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.UpdateFile("c.txt", nil); err == nil {
		t.Error("UpdateFile(c.txt) succeeded, want error")
	}

	paths := w.Paths()
	if len(paths) != 2 || paths[0] != "a.y" || paths[1] != "b.l" {
		t.Errorf("Paths = %v, want [a.y b.l]", paths)
	}

	w.RemoveFile("a.y")
	if w.GetFile("a.y") != nil {
		t.Error("GetFile(a.y) after RemoveFile is not nil")
	}
}

func TestScanAllSkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) string {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	visible := write("src/calc.y", "%%\ne: ;\n")
	hidden := write(".cache/old.y", "%%\ne: ;\n")
	other := write("README.md", "# calc\n")

	w := New(root, config.Default())
	if err := w.ScanAll(); err != nil {
		t.Fatal(err)
	}
	if w.GetFile(visible) == nil {
		t.Errorf("%s was not scanned", visible)
	}
	if w.GetFile(hidden) != nil {
		t.Errorf("%s in a hidden directory was scanned", hidden)
	}
	if w.GetFile(other) != nil {
		t.Errorf("%s is not a grammar but was scanned", other)
	}
}

func TestSetSettingsReparses(t *testing.T) {
	text := "%union { int ival; }\n%token NUM\n%%\ne: NUM { $$ = 1; } ;\n"
	w := New(t.TempDir(), config.Default())
	if err := w.UpdateFile("g.y", []byte(text)); err != nil {
		t.Fatal(err)
	}
	if n := len(w.GetFile("g.y").Problems()); n != 1 {
		t.Fatalf("len(Problems) = %d, want 1", n)
	}

	settings := config.Default()
	settings.DefaultType = "int"
	w.SetSettings(settings)

	if n := len(w.GetFile("g.y").Problems()); n != 0 {
		t.Errorf("len(Problems) with default type = %d, want 0", n)
	}
}
