package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authgate/internal/shared"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("longenough1")
	require.NoError(t, err)
	require.NotEqual(t, "longenough1", hash)

	ok, err := CheckPassword("longenough1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_CorruptHashIsInternal(t *testing.T) {
	_, err := CheckPassword("whatever", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.Equal(t, shared.KindInternal, shared.KindOf(err))
}
