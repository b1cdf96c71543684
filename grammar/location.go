package grammar

import "fmt"

type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NoRange marks an absent range, e.g. the rules section of a file without
// any %% separator.
var NoRange = Range{Start: -1, End: -1}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) IsValid() bool {
	return r.Start >= 0 && r.End >= r.Start
}

// Contains reports whether offset lies within r, End included.
func (r Range) Contains(offset int) bool {
	return r.IsValid() && offset >= r.Start && offset <= r.End
}

// Shift moves r by delta. Invalid ranges stay invalid.
func (r Range) Shift(delta int) Range {
	if !r.IsValid() {
		return r
	}
	return Range{Start: r.Start + delta, End: r.End + delta}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

type LocationKind int

const (
	LocationNone LocationKind = iota
	LocationOne
	LocationMany
)

// Locations is the result of a lookup that may find nothing, exactly one
// place or several places in a document.
type Locations struct {
	kind   LocationKind
	ranges []Range
}

func NoLocation() Locations {
	return Locations{kind: LocationNone}
}

func OneLocation(r Range) Locations {
	return Locations{kind: LocationOne, ranges: []Range{r}}
}

// ManyLocations normalizes its input: zero ranges give NoLocation and a single
// range gives OneLocation.
func ManyLocations(rs []Range) Locations {
	switch len(rs) {
	case 0:
		return NoLocation()
	case 1:
		return OneLocation(rs[0])
	}
	out := make([]Range, len(rs))
	copy(out, rs)
	return Locations{kind: LocationMany, ranges: out}
}

func (l Locations) Kind() LocationKind {
	return l.kind
}

func (l Locations) IsEmpty() bool {
	return l.kind == LocationNone
}

func (l Locations) First() (Range, bool) {
	if len(l.ranges) == 0 {
		return NoRange, false
	}
	return l.ranges[0], true
}

func (l Locations) All() []Range {
	return l.ranges
}
