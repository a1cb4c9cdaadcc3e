package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "direct", err: NotFound("Project not found"), want: KindNotFound},
		{name: "wrapped", err: fmt.Errorf("delete project: %w", Forbidden("Permission denied")), want: KindForbidden},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "nil", err: nil, want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("register: %w", Conflict("Username already exists"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, Conflict("Username already exists"))
	assert.NotErrorIs(t, err, Conflict("something else"))
}

func TestMessageOfHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Empty comment not allowed", MessageOf(InvalidInput("Empty comment not allowed")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused")))
}

func TestConstructorsKeepMessageVerbatim(t *testing.T) {
	msg := "Token has expired (100% sure)"
	err := Unauthorized(msg)

	assert.Equal(t, KindUnauthorized, err.Kind)
	assert.Equal(t, msg, err.Error())
	assert.Equal(t, "Project 7 missing", New(KindNotFound, "Project %d missing", 7).Message)
}
