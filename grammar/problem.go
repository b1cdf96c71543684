package grammar

import "fmt"

type Severity int

const (
	SeverityInformation Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityInformation: "information",
	SeverityWarning:     "warning",
	SeverityError:       "error",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Related points at a secondary location of a problem, e.g. the first
// declaration of a symbol that was declared twice.
type Related struct {
	Message string `json:"message"`
	Offset  int    `json:"offset"`
	End     int    `json:"end"`
}

type Problem struct {
	Message  string   `json:"message"`
	Offset   int      `json:"offset"`
	End      int      `json:"end"`
	Severity Severity `json:"severity"`
	Related  *Related `json:"related,omitempty"`
}

func (p Problem) Range() Range {
	return Range{Start: p.Offset, End: p.End}
}

func (p Problem) String() string {
	return fmt.Sprintf("%d-%d %s: %s", p.Offset, p.End, p.Severity, p.Message)
}

// Problems collects diagnostics in the order they are reported.
type Problems []Problem

func (ps *Problems) Add(severity Severity, message string, r Range) {
	*ps = append(*ps, Problem{Message: message, Offset: r.Start, End: r.End, Severity: severity})
}

func (ps *Problems) AddRelated(severity Severity, message string, r Range, related Related) {
	*ps = append(*ps, Problem{Message: message, Offset: r.Start, End: r.End, Severity: severity, Related: &related})
}

func (ps Problems) Count(severity Severity) int {
	n := 0
	for _, p := range ps {
		if p.Severity == severity {
			n++
		}
	}
	return n
}

func (ps Problems) HasErrors() bool {
	return ps.Count(SeverityError) > 0
}
