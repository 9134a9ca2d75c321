package repository

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairgrounds/registration-service/pkg/util"
)

func TestMapEmailConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}

	err := mapEmailConflict(pgErr)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, "CONFLICT"))

	domainErr := util.ToDomainError(err)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
	assert.Equal(t, "email", domainErr.Details["field"])
}

func TestMapEmailConflictWrapped(t *testing.T) {
	wrapped := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})
	assert.True(t, util.IsCode(mapEmailConflict(wrapped), "CONFLICT"))
}

func TestMapEmailConflictPassthrough(t *testing.T) {
	assert.NoError(t, mapEmailConflict(nil))

	other := errors.New("connection refused")
	assert.Same(t, other, mapEmailConflict(other))

	notUnique := &pgconn.PgError{Code: pgerrcode.NotNullViolation}
	assert.Equal(t, error(notUnique), mapEmailConflict(notUnique))
}

func TestBuildUserClausesSearch(t *testing.T) {
	search := "Cl_ire"
	where, args := buildUserClauses(UserFilter{Search: &search})

	assert.Contains(t, where, "LOWER(name) LIKE $1")
	assert.Contains(t, where, "LOWER(email) LIKE $1")
	assert.Equal(t, []any{`%cl\_ire%`}, args)
}
