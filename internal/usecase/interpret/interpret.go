// Package interpret turns free-text queries into structured filter hints.
package interpret

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tilemart/tilequery/internal/domain"
)

// Fixed recognition vocabularies. Matching is substring-based over the
// lowercased query; absence of a match contributes no constraint.
var (
	materials    = []string{"ceramic", "porcelain", "marble", "granite", "vitrified"}
	applications = []string{
		"bathroom", "kitchen", "living", "bedroom", "outdoor", "indoor",
		"wall", "floor", "corridor", "hallway",
	}
	colors = []string{
		"white", "black", "grey", "gray", "beige", "brown", "blue",
		"green", "red", "cream", "ivory", "gold",
	}
	finishes = []string{"matt", "gloss", "polished", "rustic", "textured"}

	slipSynonyms = []string{
		"anti-skid", "anti skid", "antiskid", "slip resistant",
		"slip-resistant", "non slip", "non-slip",
	}
)

var (
	priceCeilingRegex = regexp.MustCompile(
		`(?:below|under|less than|cheaper than|within)\s*(?:rs\.?|₹)?\s*([0-9]+(?:\.[0-9]+)?)`)
	sizePairRegex = regexp.MustCompile(`([0-9]{2,4})\s*[x×]\s*([0-9]{2,4})`)
)

// Interpret extracts zero or more filter hints from a free-text query.
// Pure function over the lowercase-normalized text; recognized hints are
// independent and combine conjunctively downstream.
func Interpret(query string) domain.Hints {
	q := strings.ToLower(query)
	var hints domain.Hints

	if m := priceCeilingRegex.FindStringSubmatch(q); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hints.PriceCeiling = &v
		}
	}

	if m := sizePairRegex.FindStringSubmatch(q); m != nil {
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW == nil && errH == nil {
			hints.Size = &domain.SizeHint{Width: w, Height: h}
		}
	}

	hints.Material = firstMatch(q, materials)
	hints.Application = firstMatch(q, applications)
	hints.Color = firstMatch(q, colors)
	hints.Finish = firstMatch(q, finishes)

	for _, syn := range slipSynonyms {
		if strings.Contains(q, syn) {
			hints.SlipResistant = true
			break
		}
	}

	return hints
}

func firstMatch(q string, vocab []string) string {
	for _, term := range vocab {
		if strings.Contains(q, term) {
			return term
		}
	}
	return ""
}
