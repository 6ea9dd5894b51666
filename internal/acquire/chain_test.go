package acquire

import (
	"errors"
	"strings"
	"testing"
	"time"

	"readvideo/internal/errclass"
	"readvideo/internal/model"
)

type fakeStrategy struct {
	name  string
	calls int
	fetch func(call int) (string, error)
}

func (s *fakeStrategy) Name() string { return s.name }

func (s *fakeStrategy) Fetch(_ model.ContentItem, _ string) (string, error) {
	s.calls++
	return s.fetch(s.calls)
}

func succeedWith(text string) func(int) (string, error) {
	return func(int) (string, error) { return text, nil }
}

func failWith(err error) func(int) (string, error) {
	return func(int) (string, error) { return "", err }
}

func testChain(maxRetries int) *Chain {
	c := NewChain(maxRetries, time.Millisecond)
	c.Sleep = func(time.Duration) {}
	return c
}

func TestAcquire_FirstSuccessWins(t *testing.T) {
	s1 := &fakeStrategy{name: "supadata", fetch: failWith(errclass.AccessBlocked("supadata", "invalid key"))}
	s2 := &fakeStrategy{name: "transcript-api", fetch: succeedWith("hello")}
	s3 := &fakeStrategy{name: "transcription", fetch: succeedWith("never")}

	out, err := testChain(2).Acquire(model.ContentItem{ID: "v1"}, t.TempDir(), []Strategy{s1, s2, s3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Success || out.Method != "transcript-api" || out.Text != "hello" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if s3.calls != 0 {
		t.Fatalf("later strategy invoked after success: %d calls", s3.calls)
	}
}

func TestAcquire_RetryBudgetExhaustion(t *testing.T) {
	retryable := errclass.Network("supadata", errors.New("timeout"))
	s1 := &fakeStrategy{name: "supadata", fetch: failWith(retryable)}
	s2 := &fakeStrategy{name: "transcription", fetch: succeedWith("text")}

	const maxRetries = 2
	out, err := testChain(maxRetries).Acquire(model.ContentItem{ID: "v1"}, t.TempDir(), []Strategy{s1, s2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.calls != maxRetries+1 {
		t.Fatalf("expected %d attempts for retryable strategy, got %d", maxRetries+1, s1.calls)
	}
	if !out.Success || out.Method != "transcription" {
		t.Fatalf("expected fallback success, got %+v", out)
	}
}

func TestAcquire_PermanentFailureSkipsRetries(t *testing.T) {
	s1 := &fakeStrategy{name: "supadata", fetch: failWith(errclass.Validation("supadata", "bad id"))}
	s2 := &fakeStrategy{name: "transcription", fetch: succeedWith("text")}

	if _, err := testChain(5).Acquire(model.ContentItem{ID: "v1"}, t.TempDir(), []Strategy{s1, s2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s1.calls != 1 {
		t.Fatalf("permanent failure must not be retried, got %d calls", s1.calls)
	}
}

func TestAcquire_AllFailedAggregatesAttempts(t *testing.T) {
	s1 := &fakeStrategy{name: "supadata", fetch: failWith(errclass.AccessBlocked("supadata", "rate limited key"))}
	s2 := &fakeStrategy{name: "transcript-api", fetch: failWith(errclass.Processing("transcript-api", errors.New("no transcript")))}

	out, err := testChain(0).Acquire(model.ContentItem{ID: "v1"}, t.TempDir(), []Strategy{s1, s2})
	if err != nil {
		t.Fatalf("chain exhaustion is a value, not an error: %v", err)
	}
	if out.Success {
		t.Fatalf("expected failure outcome")
	}
	if len(out.Attempts) != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", len(out.Attempts))
	}
	if out.Attempts[0].Strategy != "supadata" || out.Attempts[1].Strategy != "transcript-api" {
		t.Fatalf("attempts out of order: %+v", out.Attempts)
	}
	if !strings.Contains(out.Err.Error(), "no transcript") {
		t.Fatalf("aggregate should carry the last error, got %v", out.Err)
	}
	if errclass.KindOf(out.Err) != errclass.KindProcessing {
		t.Fatalf("aggregate should wrap the last typed error")
	}
}

func TestAcquire_ZeroStrategiesIsFatal(t *testing.T) {
	_, err := testChain(1).Acquire(model.ContentItem{ID: "v1"}, t.TempDir(), nil)
	if err == nil {
		t.Fatalf("expected fatal configuration error")
	}
	if errclass.Classify(err) != errclass.Fatal {
		t.Fatalf("expected Fatal class, got %v", errclass.Classify(err))
	}
}

func TestAcquire_FatalStopsChain(t *testing.T) {
	s1 := &fakeStrategy{name: "supadata", fetch: failWith(errclass.Configuration("supadata", "no API keys configured"))}
	s2 := &fakeStrategy{name: "transcription", fetch: succeedWith("text")}

	_, err := testChain(1).Acquire(model.ContentItem{ID: "v1"}, t.TempDir(), []Strategy{s1, s2})
	if err == nil || errclass.Classify(err) != errclass.Fatal {
		t.Fatalf("expected fatal error to propagate, got %v", err)
	}
	if s2.calls != 0 {
		t.Fatalf("fatal error must stop the chain")
	}
}

func TestBackoff_Doubles(t *testing.T) {
	c := NewChain(3, 100*time.Millisecond)
	if c.backoff(1) != 100*time.Millisecond || c.backoff(3) != 400*time.Millisecond {
		t.Fatalf("unexpected backoff curve: %v %v", c.backoff(1), c.backoff(3))
	}
}
