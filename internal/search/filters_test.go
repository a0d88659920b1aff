package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
)

func modWith(title, vendor, productType string, tags ...string) *domain.NormalizedMod {
	return &domain.NormalizedMod{
		Title:       title,
		Vendor:      vendor,
		ProductType: productType,
		Tags:        tags,
	}
}

func TestFiltersEmpty(t *testing.T) {
	assert.True(t, Filters{}.Empty())
	assert.True(t, Filters{Make: "  ", Model: "--", Engine: "!!"}.Empty())
	assert.False(t, Filters{Make: "Toyota"}.Empty())
	assert.False(t, Filters{Engine: "2JZ"}.Empty())
}

func TestMakeFilterSubstring(t *testing.T) {
	mod := modWith("Catback Exhaust", "XForce", "Exhaust", "holden", "commodore")

	assert.True(t, Filters{Make: "xforce"}.Match(mod))
	assert.True(t, Filters{Make: "XFORCE"}.Match(mod))
	assert.True(t, Filters{Make: "holden"}.Match(mod))
	assert.False(t, Filters{Make: "subaru"}.Match(mod))
}

func TestMakeFilterMatchesAcrossFields(t *testing.T) {
	// Vendor and tags feed the search text, not just the title.
	mod := modWith("Coilover Kit", "JustJap", "Suspension", "nissan")

	assert.True(t, Filters{Make: "justjap"}.Match(mod))
	assert.True(t, Filters{Make: "nissan"}.Match(mod))
}

func TestModelFilterChassisCode(t *testing.T) {
	// A letters-and-digits token is independently sufficient: "g35 sedan"
	// matches a record that mentions g35 but never the word sedan.
	mod := modWith("Infiniti G35 Coupe Downpipe", "ISR", "Exhaust")

	assert.True(t, Filters{Model: "g35 sedan"}.Match(mod))
	assert.True(t, Filters{Model: "G35"}.Match(mod))
	assert.False(t, Filters{Model: "q50 sedan"}.Match(mod))
}

func TestModelFilterMajorityVote(t *testing.T) {
	mod := modWith("Toyota Supra Turbo Upgrade", "Garrett", "Turbocharger")

	// "toyota supra" has two meaningful tokens; matching one of two meets
	// the ceil(n/2) threshold.
	assert.True(t, Filters{Model: "supra celica"}.Match(mod))
	// Zero of two matched.
	assert.False(t, Filters{Model: "skyline silvia"}.Match(mod))
}

func TestModelFilterMajorityVoteSingleTokenHit(t *testing.T) {
	// "supra mkiv" has no letters-and-digits token (mkiv is letters only),
	// so both tokens go to the majority vote. An item mentioning only mkiv
	// matches one of two, which meets the ceil(2/2)=1 threshold.
	mod := modWith("MKIV Front Lip", "Varis", "Aero")

	assert.True(t, Filters{Model: "supra mkiv"}.Match(mod))
	assert.False(t, Filters{Model: "chaser soarer"}.Match(mod))
}

func TestModelFilterIgnoresShortAndSeriesTokens(t *testing.T) {
	mod := modWith("Landcruiser 70 Series Snorkel", "Safari", "Intake")

	// "series" and tokens shorter than three characters carry no signal on
	// their own, but plain containment still applies first.
	assert.True(t, Filters{Model: "70 series"}.Match(mod))

	// Nothing but non-meaningful tokens and no containment: no match.
	other := modWith("Oil Filter", "Ryco", "Service Parts")
	assert.False(t, Filters{Model: "an of"}.Match(other))
}

func TestEngineFilterCompactContainment(t *testing.T) {
	mod := modWith("2JZGTE Single Turbo Manifold", "6Boost", "Turbocharger")

	// "2JZ GTE" normalizes to "2jz gte", which never occurs spaced in the
	// record, but its compact form "2jzgte" does.
	assert.True(t, Filters{Engine: "2JZ GTE"}.Match(mod))
	assert.True(t, Filters{Engine: "2jzgte"}.Match(mod))
	assert.False(t, Filters{Engine: "rb26"}.Match(mod))
}

func TestEngineFilterPlainContainment(t *testing.T) {
	mod := modWith("RB26DETT Oil Pump", "Nitto", "Engine", "rb26")

	assert.True(t, Filters{Engine: "rb26"}.Match(mod))
}

func TestFiltersCombineWithAnd(t *testing.T) {
	mod := modWith("Supra Turbo Kit", "HKS", "Forced Induction", "toyota", "2jzgte")

	assert.True(t, Filters{Make: "toyota", Model: "supra", Engine: "2jz gte"}.Match(mod))
	assert.False(t, Filters{Make: "nissan", Model: "supra"}.Match(mod))
	assert.False(t, Filters{Make: "toyota", Engine: "rb26"}.Match(mod))
}

func TestExprSQLRendering(t *testing.T) {
	b := NewCondBuilder(1)
	Filters{Make: "toyota"}.Expr().AppendSQL(b)

	assert.Equal(t, "(search_text LIKE $1)", b.String())
	assert.Equal(t, []any{"%toyota%"}, b.Args())
}

func TestExprSQLRenderingEngine(t *testing.T) {
	b := NewCondBuilder(1)
	Filters{Engine: "2JZ GTE"}.Expr().AppendSQL(b)

	assert.Equal(t, "(search_text LIKE $1 OR search_compact LIKE $2)", b.String())
	assert.Equal(t, []any{"%2jz gte%", "%2jzgte%"}, b.Args())
}

func TestExprSQLRenderingModelMajority(t *testing.T) {
	b := NewCondBuilder(1)
	Filters{Model: "toyota supra"}.Expr().AppendSQL(b)

	assert.Equal(t,
		"(search_text LIKE $1 OR (CASE WHEN search_text LIKE $2 THEN 1 ELSE 0 END + CASE WHEN search_text LIKE $3 THEN 1 ELSE 0 END) >= $4)",
		b.String(),
	)
	assert.Equal(t, []any{"%toyota supra%", "%toyota%", "%supra%", 1}, b.Args())
}

func TestExprSQLRenderingStartIndex(t *testing.T) {
	b := NewCondBuilder(5)
	Filters{Make: "hks"}.Expr().AppendSQL(b)

	assert.Equal(t, "(search_text LIKE $5)", b.String())
}

func TestExprSQLRenderingEmptyFilters(t *testing.T) {
	b := NewCondBuilder(1)
	Filters{}.Expr().AppendSQL(b)

	assert.Equal(t, "TRUE", b.String())
	assert.Empty(t, b.Args())
}

// Both interpreters walk the same tree; spot-check that the SQL rendering of
// a mixed filter set binds arguments in tree order.
func TestExprSQLRenderingCombined(t *testing.T) {
	b := NewCondBuilder(1)
	Filters{Make: "toyota", Model: "g35 sedan", Engine: "vq35"}.Expr().AppendSQL(b)

	require.Equal(t,
		"(search_text LIKE $1) AND (search_text LIKE $2 OR search_text LIKE $3) AND (search_text LIKE $4 OR search_compact LIKE $5)",
		b.String(),
	)
	assert.Equal(t,
		[]any{"%toyota%", "%g35 sedan%", "%g35%", "%vq35%", "%vq35%"},
		b.Args(),
	)
}
