package search

import (
	"fmt"
	"strings"
)

// Expr is one node of the filter expression tree. Match evaluates the node
// against a record's derived search fields; AppendSQL renders the same node
// as a SQL boolean condition over the search_text/search_compact columns.
type Expr interface {
	Match(text, compact string) bool
	AppendSQL(b *CondBuilder)
}

// CondBuilder accumulates a SQL condition string with numbered placeholders
// and their bind arguments. startIndex is the first placeholder number, so
// conditions can be appended to a query that already binds arguments.
type CondBuilder struct {
	sb       strings.Builder
	args     []any
	argIndex int
}

// NewCondBuilder creates a builder whose first placeholder is $startIndex.
func NewCondBuilder(startIndex int) *CondBuilder {
	return &CondBuilder{argIndex: startIndex}
}

// String returns the accumulated SQL condition.
func (b *CondBuilder) String() string {
	return b.sb.String()
}

// Args returns the accumulated bind arguments in placeholder order.
func (b *CondBuilder) Args() []any {
	return b.args
}

func (b *CondBuilder) write(s string) {
	b.sb.WriteString(s)
}

func (b *CondBuilder) bind(arg any) {
	fmt.Fprintf(&b.sb, "$%d", b.argIndex)
	b.args = append(b.args, arg)
	b.argIndex++
}

// andExpr matches when every child matches. An empty andExpr matches
// everything.
type andExpr []Expr

func (e andExpr) Match(text, compact string) bool {
	for _, child := range e {
		if !child.Match(text, compact) {
			return false
		}
	}
	return true
}

func (e andExpr) AppendSQL(b *CondBuilder) {
	if len(e) == 0 {
		b.write("TRUE")
		return
	}
	for i, child := range e {
		if i > 0 {
			b.write(" AND ")
		}
		b.write("(")
		child.AppendSQL(b)
		b.write(")")
	}
}

// orExpr matches when any child matches.
type orExpr []Expr

func (e orExpr) Match(text, compact string) bool {
	for _, child := range e {
		if child.Match(text, compact) {
			return true
		}
	}
	return false
}

func (e orExpr) AppendSQL(b *CondBuilder) {
	if len(e) == 0 {
		b.write("FALSE")
		return
	}
	for i, child := range e {
		if i > 0 {
			b.write(" OR ")
		}
		child.AppendSQL(b)
	}
}

// containsText matches when the normalized term is a substring of the
// record's search_text.
type containsText string

func (e containsText) Match(text, _ string) bool {
	return strings.Contains(text, string(e))
}

func (e containsText) AppendSQL(b *CondBuilder) {
	b.write("search_text LIKE ")
	b.bind("%" + string(e) + "%")
}

// containsCompact matches when the space-stripped term is a substring of the
// record's search_compact. This tolerates formatting differences such as
// internal spacing in engine codes.
type containsCompact string

func (e containsCompact) Match(_, compact string) bool {
	return strings.Contains(compact, string(e))
}

func (e containsCompact) AppendSQL(b *CondBuilder) {
	b.write("search_compact LIKE ")
	b.bind("%" + string(e) + "%")
}

// atLeast matches when at least Threshold of the terms are substrings of the
// record's search_text.
type atLeast struct {
	Threshold int
	Terms     []string
}

func (e atLeast) Match(text, _ string) bool {
	matches := 0
	for _, term := range e.Terms {
		if strings.Contains(text, term) {
			matches++
		}
	}
	return matches >= e.Threshold
}

func (e atLeast) AppendSQL(b *CondBuilder) {
	b.write("(")
	for i, term := range e.Terms {
		if i > 0 {
			b.write(" + ")
		}
		b.write("CASE WHEN search_text LIKE ")
		b.bind("%" + term + "%")
		b.write(" THEN 1 ELSE 0 END")
	}
	b.write(") >= ")
	b.bind(e.Threshold)
}

// never matches nothing.
type never struct{}

func (never) Match(_, _ string) bool { return false }

func (never) AppendSQL(b *CondBuilder) {
	b.write("FALSE")
}
