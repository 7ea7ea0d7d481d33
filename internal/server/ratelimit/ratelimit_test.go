package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Pattern: "/submit/", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},
			{Pattern: "/health", Limit: 0},
		},
	}
}

func TestLimiter_BurstThenReject(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/submit/gravity", "POST")
		assert.True(t, allowed, "request %d within burst", i)
	}

	allowed, info := l.Allow("1.2.3.4", "/submit/gravity", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 10, info.Limit)
	assert.GreaterOrEqual(t, info.RetryAfter, time.Second)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow("1.2.3.4", "/submit/gravity", "POST")
	}
	allowed, _ := l.Allow("5.6.7.8", "/submit/gravity", "POST")
	assert.True(t, allowed, "a different client has its own bucket")
}

func TestLimiter_UnlimitedEndpoint(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 500; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/submit/gravity", "POST")
		assert.True(t, allowed)
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	tb := newTokenBucket(1, 1000) // 1000 tokens/sec for a fast test

	assert.True(t, tb.allow())
	assert.False(t, tb.allow())

	time.Sleep(5 * time.Millisecond)
	assert.True(t, tb.allow())
}

func TestMatchEndpoint_ExactBeatsPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Pattern: "/applications/", Limit: 30},
		{Pattern: "/applications/draft", Limit: 5},
	}

	ec := MatchEndpoint("/applications/draft", "POST", configs)
	assert.NotNil(t, ec)
	assert.Equal(t, 5, ec.Limit)

	ec = MatchEndpoint("/applications/resume/abc", "GET", configs)
	assert.NotNil(t, ec)
	assert.Equal(t, 30, ec.Limit)
}

func TestMatchEndpoint_MethodFilter(t *testing.T) {
	configs := []EndpointConfig{
		{Pattern: "/submit/", Method: "POST", Limit: 10},
	}

	assert.NotNil(t, MatchEndpoint("/submit/gravity", "POST", configs))
	assert.Nil(t, MatchEndpoint("/submit/gravity", "GET", configs))
}

func TestMatchEndpoint_NoMatch(t *testing.T) {
	configs := DefaultEndpointConfigs()
	assert.Nil(t, MatchEndpoint("/nowhere", "GET", configs))
}
