package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE_FormatsKindAndMessage(t *testing.T) {
	err := E(KindBadRequest, "nickname length must be between %d and %d characters", 3, 32)
	assert.Equal(t, "bad request: nickname length must be between 3 and 32 characters", err.Error())
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestWrap_KeepsCauseReachable(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindUnavailable, cause, "unable to reach PostgreSQL during startup")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, KindUnavailable, KindOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestKindOf_UnclassifiedIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	inner := E(KindConflict, "user with this nickname or email already exists")
	outer := fmt.Errorf("register: %w", inner)
	assert.Equal(t, KindConflict, KindOf(outer))
}

func TestKind_Strings(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBadRequest, "bad request"},
		{KindUnauthorized, "unauthorized"},
		{KindForbidden, "forbidden"},
		{KindConflict, "conflict"},
		{KindUnavailable, "service unavailable"},
		{KindSchemaMismatch, "schema mismatch"},
		{KindInternal, "internal server error"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.kind.String())
	}
}
