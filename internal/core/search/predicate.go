package search

import (
	"strings"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// Predicate reports whether an item belongs in a search result.
// Predicates must be pure: no side effects and no state carried between calls.
type Predicate[T any] func(item T) bool

// Matches evaluates p. A nil predicate matches everything.
func (p Predicate[T]) Matches(item T) bool {
	if p == nil {
		return true
	}
	return p(item)
}

// Always returns a predicate that matches every item.
func Always[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// And returns the conjunction of preds. Nil members are skipped, so an empty
// or all-nil list matches every item.
func And[T any](preds ...Predicate[T]) Predicate[T] {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		return Always[T]()
	case 1:
		return active[0]
	}

	return func(item T) bool {
		for _, p := range active {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// NewSessionPredicate builds the conjunction of the supplied session criteria.
// Blank criteria are not supplied; with none supplied every item matches.
// Items without session data fail every supplied criterion.
func NewSessionPredicate[T domain.SessionScoped](filter domain.SessionFilter) Predicate[T] {
	f := filter.Normalise()

	var preds []Predicate[T]
	if f.SessionID != "" {
		preds = append(preds, sessionIDPredicate[T](f.SessionID))
	}
	if f.MetadataName != "" {
		preds = append(preds, metadataPredicate[T](f.MetadataName, f.MetadataValue))
	}
	return And(preds...)
}

func sessionIDPredicate[T domain.SessionScoped](id string) Predicate[T] {
	return func(item T) bool {
		for _, s := range item.SessionMetadata() {
			if s.SessionID == id {
				return true
			}
		}
		return false
	}
}

func metadataPredicate[T domain.SessionScoped](name, value string) Predicate[T] {
	return func(item T) bool {
		for _, s := range item.SessionMetadata() {
			for _, m := range s.Metadata {
				if !strings.EqualFold(m.Name, name) {
					continue
				}
				if value == "" || strings.EqualFold(m.Value, value) {
					return true
				}
			}
		}
		return false
	}
}
