package domain

import "fmt"

// SizeHint is a nominal tile size pair extracted from a query, e.g. 300x450.
type SizeHint struct {
	Width  int
	Height int
}

// Variants returns the size strings accepted as a match against the
// free-text Size column. Catalog size strings are not strictly normalized,
// so both orientations and a spaced form are accepted.
func (s SizeHint) Variants() []string {
	return []string{
		fmt.Sprintf("%dx%d", s.Width, s.Height),
		fmt.Sprintf("%d x %d", s.Width, s.Height),
		fmt.Sprintf("%dx%d", s.Height, s.Width),
		fmt.Sprintf("%d x %d", s.Height, s.Width),
	}
}

// Hints holds the structured filter constraints extracted from a free-text
// query. Every field is optional; zero values contribute no constraint.
// Present hints combine conjunctively downstream.
type Hints struct {
	PriceCeiling  *float64
	Size          *SizeHint
	Material      string
	Application   string
	Color         string
	Finish        string
	SlipResistant bool
}

// Empty reports whether no hint was recognized.
func (h Hints) Empty() bool {
	return h.PriceCeiling == nil && h.Size == nil &&
		h.Material == "" && h.Application == "" &&
		h.Color == "" && h.Finish == "" && !h.SlipResistant
}
