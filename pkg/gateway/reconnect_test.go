package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconnectPolicyZeroValueDisabled(t *testing.T) {
	var p ReconnectPolicy
	assert.False(t, p.Enabled())

	_, ok := p.Delay(1)
	assert.False(t, ok)
}

func TestReconnectPolicyDelays(t *testing.T) {
	p := ReconnectPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff(time.Second, 10*time.Second),
	}

	d1, ok := p.Delay(1)
	assert.True(t, ok)
	assert.Equal(t, time.Second, d1)

	d2, _ := p.Delay(2)
	assert.Equal(t, 2*time.Second, d2)

	d3, _ := p.Delay(3)
	assert.Equal(t, 4*time.Second, d3)

	_, ok = p.Delay(4)
	assert.False(t, ok, "policy exhausted past MaxAttempts")
}

func TestExponentialBackoffCapped(t *testing.T) {
	backoff := ExponentialBackoff(time.Second, 4*time.Second)

	assert.Equal(t, 4*time.Second, backoff(10))
	assert.Equal(t, time.Second, backoff(1))
}
