// Package search implements the free-text filter matching engine. The
// matching semantics are defined once as a small expression tree (an AND of
// per-field rules) with two interpreters: an in-memory predicate and a
// compiler to SQL conditions over the stored search_text/search_compact
// columns. Both renderings walk the same tree, so they accept exactly the
// same records by construction.
package search

import (
	"strings"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
)

// Normalize lowercases the input, collapses every maximal run of
// non-alphanumeric characters to a single space, and trims the result.
// It is applied to filters and stored fields alike before any comparison.
func Normalize(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, ch := range value {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch + ('a' - 'A'))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Compact removes all spaces from an already-normalized string.
func Compact(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}

// BuildSearchText concatenates the normalized title, vendor, product type,
// and tags of a record into the derived search_text field. The persistence
// engine recomputes this (together with its compact form) on every write so
// the stored fields are never stale.
func BuildSearchText(mod *domain.NormalizedMod) string {
	parts := make([]string, 0, len(mod.Tags)+3)
	for _, source := range []string{mod.Title, mod.Vendor, mod.ProductType} {
		if normalized := Normalize(source); normalized != "" {
			parts = append(parts, normalized)
		}
	}
	for _, tag := range mod.Tags {
		if normalized := Normalize(tag); normalized != "" {
			parts = append(parts, normalized)
		}
	}
	return strings.Join(parts, " ")
}
