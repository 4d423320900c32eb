package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_NextDelay(t *testing.T) {
	r := RetryPolicy{InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, r.NextDelay(0))
	assert.Equal(t, time.Second, r.NextDelay(1))
	assert.Equal(t, 2*time.Second, r.NextDelay(2))
	assert.Equal(t, 8*time.Second, r.NextDelay(4))
	assert.Equal(t, 10*time.Second, r.NextDelay(5))
	assert.Equal(t, 10*time.Second, r.NextDelay(5000))
}

func TestRetryPolicy_Defaults(t *testing.T) {
	r := RetryPolicy{}.withDefaults()

	assert.Equal(t, 5, r.MaxAttempts)
	assert.Equal(t, 2*time.Second, r.NextDelay(1))
	assert.Equal(t, 5*time.Minute, r.NextDelay(20))
}
