package syncerr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err       error
		name      string
		retryable bool
	}{
		{name: "nil", err: nil, retryable: false},
		{name: "validation", err: Validation(OpAppend, errors.New("bad")), retryable: false},
		{name: "transport", err: Transport(OpPush, errors.New("connection reset")), retryable: true},
		{name: "server 500", err: Server(OpPush, http.StatusInternalServerError, "boom"), retryable: true},
		{name: "server 503", err: Server(OpPull, http.StatusServiceUnavailable, "down"), retryable: true},
		{name: "server 429", err: Server(OpPush, http.StatusTooManyRequests, "slow down"), retryable: true},
		{name: "server 400", err: Server(OpPush, http.StatusBadRequest, "bad"), retryable: false},
		{name: "server 401", err: Server(OpPush, http.StatusUnauthorized, "auth"), retryable: false},
		{name: "deadline", err: fmt.Errorf("wrapped: %w", context.DeadlineExceeded), retryable: true},
		{name: "net timeout", err: timeoutErr{}, retryable: true},
		{name: "not connected", err: ErrNotConnected, retryable: true},
		{name: "plain", err: errors.New("something"), retryable: false},
		{name: "wrapped transport", err: fmt.Errorf("push: %w", Transport(OpPush, errors.New("eof"))), retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestServerError_IsUnauthorized(t *testing.T) {
	err := fmt.Errorf("push failed: %w", Server(OpPush, http.StatusUnauthorized, "expired"))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, Server(OpPush, http.StatusForbidden, "nope"), ErrUnauthorized)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Validation(OpApply, nil))
	assert.NoError(t, Transport(OpApply, nil))
}

func TestUserMessage_HidesRawErrors(t *testing.T) {
	raw := Transport(OpPush, errors.New("dial tcp 10.0.0.1:443: connect: connection refused"))

	msg := UserMessage(raw)
	assert.NotContains(t, msg, "10.0.0.1")
	assert.Contains(t, msg, "offline")

	assert.Contains(t, UserMessage(Server(OpPush, http.StatusUnauthorized, "jwt")), "log in")
	assert.Contains(t, UserMessage(Server(OpPush, http.StatusBadRequest, "x")), "retry")
	assert.Empty(t, UserMessage(nil))
}
