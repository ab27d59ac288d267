package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	require.NoError(t, State(true, "unused"))

	err := State(false, "the name must start with an uppercase letter")
	require.Error(t, err)
	assert.Equal(t, "the name must start with an uppercase letter", err.Error())
	assert.True(t, IsInvalidState(err))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewInvalidState("bad"))
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.True(t, IsInvalidState(err))
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.False(t, IsInvalidState(err))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid_state", KindInvalidState.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
