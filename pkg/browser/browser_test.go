package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStale(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrStaleElement, true},
		{fmt.Errorf("wrapped: %w", ErrStaleElement), true},
		{errors.New("{-32000 Could not find object with given id}"), true},
		{errors.New("Cannot find context with specified id"), true},
		{errors.New("No node with given id found"), true},
		{errors.New("Node is detached from document"), true},
		{errors.New("net::ERR_NAME_NOT_RESOLVED"), false},
		{ErrNoSuchElement, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStale(tt.err), "%v", tt.err)
	}
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	err := classify(errors.New("Could not find object with given id"))
	assert.ErrorIs(t, err, ErrStaleElement)

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))

	assert.ErrorIs(t, classify(context.Canceled), context.Canceled)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "selenium", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
