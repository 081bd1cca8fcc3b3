package answer

import (
	"fmt"
	"strings"

	"github.com/tilemart/tilequery/internal/domain"
)

// NoMatchesMessage is returned when the ranked list is empty.
const NoMatchesMessage = "No matching tiles found. Try a broader search."

const excerptLimit = 120

// Format renders a ranked list into a human-readable summary. Pure function,
// no I/O: identical input yields identical text.
func Format(results []domain.RankedTile) string {
	if len(results) == 0 {
		return NoMatchesMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching tile(s):\n", len(results))
	for i, r := range results {
		p := r.Product
		fmt.Fprintf(&b, "%d. %s (relevance %.0f%%)\n", i+1, p.Name, r.Score*100)

		var details []string
		if p.Material != "" {
			details = append(details, p.Material)
		}
		if p.Size != "" {
			details = append(details, p.Size)
		}
		if p.HasPrice() {
			unit := p.PriceUnit
			if unit == "" {
				unit = "sq ft"
			}
			details = append(details, fmt.Sprintf("₹%.0f per %s", p.Price, unit))
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, "   %s\n", strings.Join(details, " | "))
		}
		if excerpt := excerptOf(p.Description); excerpt != "" {
			fmt.Fprintf(&b, "   %s\n", excerpt)
		}
		if p.Applications != "" {
			fmt.Fprintf(&b, "   suited for: %s\n", p.Applications)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func excerptOf(description string) string {
	s := strings.TrimSpace(description)
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= excerptLimit {
		return s
	}
	return string(runes[:excerptLimit]) + "..."
}
