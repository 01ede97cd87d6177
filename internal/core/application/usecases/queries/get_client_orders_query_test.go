package queries_test

import (
	"testing"

	"courierbridge/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetClientOrdersQuery_Valid(t *testing.T) {
	query, err := queries.NewGetClientOrdersQuery(1001)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, int64(1001), query.ClientID())
}

func TestNewGetClientOrdersQuery_InvalidClientID(t *testing.T) {
	_, err := queries.NewGetClientOrdersQuery(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrClientIDIsInvalid)
}

func TestGetClientOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetClientOrdersQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetClientOrdersQueryIsNotConstructed)
}
