package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairgrounds/registration-service/internal/domain"
)

func TestBuildFilterClausesEmpty(t *testing.T) {
	where, args := buildFilterClauses(RegistrationFilter{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestBuildFilterClausesStatusAndSearch(t *testing.T) {
	status := domain.StatusApproved
	search := "  Amelie  "
	where, args := buildFilterClauses(RegistrationFilter{Status: &status, Search: &search})

	assert.Contains(t, where, "status=$1")
	assert.Contains(t, where, "LOWER(first_name) LIKE $2")
	assert.Contains(t, where, "LOWER(COALESCE(company_name, '')) LIKE $2")
	assert.Equal(t, []any{status, "%amelie%"}, args)
}

func TestBuildFilterClausesIgnoresBlankSearch(t *testing.T) {
	search := "   "
	where, args := buildFilterClauses(RegistrationFilter{Search: &search})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	// LIKE metacharacters in the term must match themselves, not act as
	// wildcards: "a_c" is not a match for "abc".
	assert.Equal(t, `%a\_c%`, likePattern("a_c"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%c:\\temp%`, likePattern(`C:\temp`))
	assert.Equal(t, "%amelie%", likePattern("  Amelie  "))
}
