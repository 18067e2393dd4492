package catalog

import (
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"

	"BazaarWatch/internal/model"
)

// maxHintDistance bounds the edit distance of a "did you mean" hint.
const maxHintDistance = 3

// ErrNotLoaded matches any NotLoadedError via errors.Is.
var ErrNotLoaded = errors.New("item list not loaded")

// NotLoadedError means the catalog could not answer because no successful
// load has happened yet.
type NotLoadedError struct {
	State State
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("item list not loaded (%s)", e.State)
}

func (e *NotLoadedError) Is(target error) bool { return target == ErrNotLoaded }

// ValidationError means the query normalized to an empty identifier.
type ValidationError struct {
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid item id %q", e.Input)
}

// NotFoundError means a well-formed identifier has no catalog entry. Closest
// holds the nearest known identifier when one is within a few edits.
type NotFoundError struct {
	ID      string
	Closest string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", e.ID)
}

// Lookup normalizes text and resolves it against the catalog. The checks run
// in a fixed order: loaded, non-empty, known.
func (c *Catalog) Lookup(text string) (string, *model.Product, error) {
	id := Normalize(text)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state != StateReady {
		return id, nil, &NotLoadedError{State: c.state}
	}
	if id == "" {
		return id, nil, &ValidationError{Input: text}
	}
	p, ok := c.products[id]
	if !ok || p == nil {
		return id, nil, &NotFoundError{ID: id, Closest: c.closestLocked(id)}
	}
	return id, p, nil
}

func (c *Catalog) closestLocked(id string) string {
	best, bestDist := "", maxHintDistance+1
	for _, candidate := range c.ids {
		if c.products[candidate] == nil {
			continue
		}
		d := levenshtein.ComputeDistance(id, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist >= len(id) {
		return ""
	}
	return best
}
