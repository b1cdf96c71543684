package format

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/dhamidi/yash/config"
	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/workspace"
	"github.com/pterm/pterm"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func parse(t *testing.T, path, text string) *workspace.File {
	t.Helper()
	f, err := workspace.Parse(path, []byte(text), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func encode(t *testing.T, name string, f *workspace.File) string {
	t.Helper()
	var buf bytes.Buffer
	enc, err := New(name, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode(f); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestLineEncoder(t *testing.T) {
	f := parse(t, "g.y", "%token A\n%token A\n%%\ne: A ;\n")
	got := encode(t, "line", f)
	want := "g.y:2:8: error: Symbol was already declared.\ng.y:1:8: note: Was declared here.\n"
	if got != want {
		t.Errorf("line output = %q, want %q", got, want)
	}
}

func TestPrettyEncoder(t *testing.T) {
	f := parse(t, "g.y", "%%\ne: X ;\n")
	got := encode(t, "pretty", f)
	want := "g.y:2:4 error Symbol was not declared.\n" +
		"    2 | e: X ;\n" +
		"      |    ^\n"
	if got != want {
		t.Errorf("pretty output =\n%s\nwant\n%s", got, want)
	}
}

func TestPrettyEncoderKeepsTabs(t *testing.T) {
	f := parse(t, "g.y", "%%\ne:\tX ;\n")
	got := encode(t, "pretty", f)
	if !strings.Contains(got, "|   \t^\n") {
		t.Errorf("marker does not follow the tab:\n%s", got)
	}
}

func TestTreeEncoder(t *testing.T) {
	f := parse(t, "g.y", "%token NUM\n%%\nexpr: NUM ;\n")
	got := encode(t, "tree", f)

	for _, want := range []string{"g.y (yacc)\n", "tokens\n", "──NUM\n", "non-terminals\n", "──expr\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("tree output does not contain %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "tokens") > strings.Index(got, "non-terminals") {
		t.Errorf("groups are out of order:\n%s", got)
	}
}

func TestJSONEncoder(t *testing.T) {
	f := parse(t, "s.l", "d [0-9]\n%%\n{d} ;\n")
	var out struct {
		Path     string         `json:"path"`
		Language string         `json:"language"`
		Document map[string]any `json:"document"`
	}
	if err := json.Unmarshal([]byte(encode(t, "json", f)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Path != "s.l" || out.Language != "lex" {
		t.Errorf("path, language = %q, %q, want s.l, lex", out.Path, out.Language)
	}
	if _, ok := out.Document["defines"]; !ok {
		t.Errorf("document has no defines: %v", out.Document)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) succeeded, want error")
	}
}

func TestSummary(t *testing.T) {
	var ps grammar.Problems
	ps.Add(grammar.SeverityError, "a", grammar.Range{})
	ps.Add(grammar.SeverityError, "b", grammar.Range{})
	ps.Add(grammar.SeverityWarning, "c", grammar.Range{})
	if got, want := Summary(ps), "2 errors, 1 warning"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}
