package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("processing refund: %w", NewStateConflict("refund already processed", "r-1"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindStateConflict, KindOf(err))
	assert.Contains(t, err.Error(), "record r-1")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", ErrNotFound)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(NewAppError("db down", errors.New("conn refused"))))
	assert.Equal(t, KindTimeout, KindOf(NewAppError("query", context.DeadlineExceeded)))
}

func TestFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.NoError(t, FromContext(ctx, "post entry"))

	cancel()
	err := FromContext(ctx, "post entry")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}
