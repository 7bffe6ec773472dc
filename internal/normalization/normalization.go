package normalization

import (
	"strings"

	"github.com/samber/lo"
)

func ParseInputString(input string) string {
	return strings.TrimSpace(input)
}

// ParseStringSet trims every element, drops empties and de-duplicates while
// preserving first-seen order.
func ParseStringSet(input []string) []string {
	cleaned := make([]string, 0, len(input))
	for _, v := range input {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		cleaned = append(cleaned, v)
	}
	return lo.Uniq(cleaned)
}
