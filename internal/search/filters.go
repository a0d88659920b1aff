package search

import (
	"strings"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
)

// Filters holds the raw free-text filters of one query. Empty strings mean
// the filter is absent; values are normalized before matching.
type Filters struct {
	Make   string
	Model  string
	Engine string
}

// Empty reports whether no filter carries any matchable content.
func (f Filters) Empty() bool {
	return Normalize(f.Make) == "" && Normalize(f.Model) == "" && Normalize(f.Engine) == ""
}

// Expr compiles the filter set into the expression tree both interpreters
// evaluate. Filters that normalize to nothing are skipped; the remaining
// per-field rules are combined with AND.
func (f Filters) Expr() Expr {
	var conds andExpr

	if makeFilter := Normalize(f.Make); makeFilter != "" {
		conds = append(conds, simpleExpr(makeFilter))
	}
	if modelFilter := Normalize(f.Model); modelFilter != "" {
		conds = append(conds, modelExpr(modelFilter))
	}
	if engineFilter := Normalize(f.Engine); engineFilter != "" {
		conds = append(conds, engineExpr(engineFilter))
	}

	return conds
}

// Match evaluates the filter set against a record by recomputing its derived
// search fields. This is the in-memory rendering of the engine; the SQL
// rendering compiles the identical tree via Expr().AppendSQL.
func (f Filters) Match(mod *domain.NormalizedMod) bool {
	text := BuildSearchText(mod)
	return f.Expr().Match(text, Compact(text))
}

// simpleExpr is the plain containment rule: the normalized filter must occur
// inside the record's search_text. Whole-token equality is a special case of
// substring containment on the space-joined text, so no separate branch is
// needed.
func simpleExpr(filter string) Expr {
	return containsText(filter)
}

// modelExpr renders the model matching rule: plain containment first, then
// chassis-code tokens as independently sufficient signals, then a majority
// vote over the meaningful tokens.
func modelExpr(filter string) Expr {
	alternatives := orExpr{simpleExpr(filter)}

	tokens := strings.Fields(filter)
	chassis := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if hasLettersAndDigits(token) {
			chassis = append(chassis, token)
		}
	}

	if len(chassis) > 0 {
		for _, token := range chassis {
			alternatives = append(alternatives, containsText(token))
		}
		return alternatives
	}

	meaningful := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) >= 3 && token != "series" {
			meaningful = append(meaningful, token)
		}
	}

	if len(meaningful) == 0 {
		alternatives = append(alternatives, never{})
		return alternatives
	}

	alternatives = append(alternatives, atLeast{
		Threshold: (len(meaningful) + 1) / 2,
		Terms:     meaningful,
	})
	return alternatives
}

// engineExpr renders the engine matching rule: plain containment first, then
// containment of the space-stripped filter in search_compact.
func engineExpr(filter string) Expr {
	return orExpr{
		simpleExpr(filter),
		containsCompact(Compact(filter)),
	}
}

// hasLettersAndDigits reports whether a token mixes letters and digits,
// which marks it as a chassis-style model code (e.g. "g35", "mk4").
func hasLettersAndDigits(token string) bool {
	hasLetter, hasDigit := false, false
	for _, ch := range token {
		switch {
		case ch >= 'a' && ch <= 'z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
