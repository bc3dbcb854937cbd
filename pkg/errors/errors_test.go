package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("loading chat: %w", NotFound("Chat", nil))

	assert.True(t, Is(err, "NOT_FOUND"))
	assert.False(t, Is(err, "FORBIDDEN"))
	assert.False(t, Is(nil, "NOT_FOUND"))
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	up := Unavailable("Failed to fetch listings", cause)
	assert.Equal(t, http.StatusBadGateway, up.Status)
	assert.ErrorIs(t, up, cause)
	assert.Contains(t, up.Error(), "connection refused")

	tm := TooManyRequests("slow down", 3*time.Second)
	assert.Equal(t, http.StatusTooManyRequests, tm.Status)
	assert.Equal(t, 3*time.Second, tm.RetryAfter)
	assert.Equal(t, "TOO_MANY_REQUESTS: slow down", tm.Error())
}
