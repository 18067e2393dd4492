package catalog

import (
	"strings"

	"BazaarWatch/internal/model"
)

// MaxSuggestions caps how many autocomplete candidates are surfaced.
const MaxSuggestions = 10

// Normalize maps free text to the identifier format: uppercase, trimmed,
// spaces replaced with underscores.
func Normalize(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToUpper(text)), " ", "_")
}

// DisplayName turns an identifier back into readable words.
func DisplayName(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

// Suggest returns identifiers containing the normalized text, in catalog
// order, capped at limit (MaxSuggestions when limit <= 0). An empty query or
// a catalog that is not ready yields nil.
func (c *Catalog) Suggest(text string, limit int) []model.Suggestion {
	if limit <= 0 || limit > MaxSuggestions {
		limit = MaxSuggestions
	}
	query := Normalize(text)
	if query == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady {
		return nil
	}

	var out []model.Suggestion
	for _, id := range c.ids {
		if !strings.Contains(id, query) {
			continue
		}
		out = append(out, model.Suggestion{ID: id, Label: DisplayName(id)})
		if len(out) == limit {
			break
		}
	}
	return out
}
