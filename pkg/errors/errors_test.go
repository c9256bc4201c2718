package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSentinel = Forbidden("locked")

func TestWrap_KeepsKindAndSentinel(t *testing.T) {
	err := Wrap(errSentinel, "Cannot modify time entries. Timesheet status is %s", "approved")

	assert.Equal(t, KindForbidden, err.Kind)
	assert.Equal(t, "Cannot modify time entries. Timesheet status is approved", err.Error())
	assert.True(t, errors.Is(err, errSentinel))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("x")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("outer: %w", Conflict("dup"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "dup", MessageOf(fmt.Errorf("wrapped: %w", Conflict("dup"))))
	assert.Empty(t, MessageOf(errors.New("plain")))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "bad_request", KindBadRequest.String())
	assert.Equal(t, "internal", Kind(99).String())
}
