package traveloka

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status int
		want   outcomeClass
	}{
		{200, classSuccess},
		{202, classSuccess},
		{429, classThrottled},
		{407, classProxyAuth},
		{400, classPermanent},
		{403, classPermanent},
		{404, classPermanent},
		{405, classPermanent},
		{500, classTransient},
		{502, classTransient},
		{503, classTransient},
		{418, classTransient},
	}
	for _, tc := range cases {
		if got := classify(tc.status); got != tc.want {
			t.Errorf("classify(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	p := retryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

	if p.ShouldRetry(classPermanent, 1) {
		t.Error("permanent failures must abandon the budget immediately")
	}
	if p.ShouldRetry(classSuccess, 1) {
		t.Error("success never retries")
	}
	if !p.ShouldRetry(classTransient, 1) || !p.ShouldRetry(classTransient, 2) {
		t.Error("transient failures retry within the budget")
	}
	if p.ShouldRetry(classTransient, 3) {
		t.Error("attempt budget must be respected")
	}
	if !p.ShouldRetry(classThrottled, 2) || !p.ShouldRetry(classProxyAuth, 2) {
		t.Error("429 and 407 retry within the budget")
	}
}

func TestBackoffLinearForThrottling(t *testing.T) {
	p := retryPolicy{MaxAttempts: 3, BaseDelay: 5 * time.Second}

	if got := p.Backoff(classThrottled, 1); got != 5*time.Second {
		t.Errorf("throttled attempt 1 backoff = %v, want 5s", got)
	}
	if got := p.Backoff(classThrottled, 2); got != 10*time.Second {
		t.Errorf("throttled attempt 2 backoff = %v, want 10s", got)
	}
	if got := p.Backoff(classTransient, 2); got != 5*time.Second {
		t.Errorf("transient backoff must stay at base, got %v", got)
	}
	if got := p.Backoff(classProxyAuth, 2); got != 5*time.Second {
		t.Errorf("proxy-auth backoff must stay at base, got %v", got)
	}
}
