package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{Invalid("missing symbol"), http.StatusBadRequest},
		{Unauthorized("invalid username and/or password"), http.StatusForbidden},
		{Missing("symbol doesn't exist"), http.StatusNotFound},
		{Duplicate("username already taken"), http.StatusConflict},
		{NoFunds("not enough cash"), http.StatusBadRequest},
		{NoShares("you don't own that many shares"), http.StatusBadRequest},
		{NotAllowed("Method Not Allowed"), http.StatusMethodNotAllowed},
		{InternalErr(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("untagged"), http.StatusInternalServerError},
	} {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestWrappedKindSurvives(t *testing.T) {
	err := fmt.Errorf("buy: %w", NoFunds("not enough cash"))
	assert.Equal(t, InsufficientFunds, KindOf(err))
	assert.Equal(t, "not enough cash", Message(err))
}

func TestMessageHidesInternalCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := InternalErr(cause)

	assert.Equal(t, "internal server error", Message(err))
	assert.Equal(t, "internal server error", Message(cause))
	assert.ErrorIs(t, err, cause)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "insufficient_funds", InsufficientFunds.String())
	assert.Equal(t, "validation", Validation.String())
}
