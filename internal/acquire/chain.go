// Package acquire implements the ordered fallback chain that obtains
// transcript text for one content item. Strategies are tried cheapest
// first and the first success wins; retry and advance decisions are made
// from classified error kinds, never from control flow.
package acquire

import (
	"fmt"
	"strings"
	"time"

	"readvideo/internal/errclass"
	"readvideo/internal/model"
)

// Strategy is one concrete way of obtaining transcript text for an item:
// a hosted subtitle source or the audio-transcription fallback.
type Strategy interface {
	Name() string
	Fetch(item model.ContentItem, outputDir string) (string, error)
}

// Attempt records one strategy's terminal failure for diagnostics.
type Attempt struct {
	Strategy string
	Kind     errclass.Kind
	Class    errclass.Class
	Tries    int
	Err      string
}

// Outcome is the result of running the chain for one item. A failed chain
// is a normal value; only Fatal configuration errors surface as an error
// from Acquire.
type Outcome struct {
	Success  bool
	Text     string
	Method   string
	Attempts []Attempt
	Err      error
}

// Chain drives the ordered strategies. Retry counts and backoff are
// policy, injected by configuration; Sleep is replaceable for tests.
type Chain struct {
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      func(time.Duration)
}

func NewChain(maxRetries int, baseDelay time.Duration) *Chain {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &Chain{MaxRetries: maxRetries, BaseDelay: baseDelay, Sleep: time.Sleep}
}

// Acquire tries each strategy in order until one returns text. Retryable
// failures re-attempt the same strategy up to MaxRetries extra times with
// doubling delays; Permanent failures advance immediately; Fatal failures
// abort the chain and propagate.
func (c *Chain) Acquire(item model.ContentItem, workDir string, strategies []Strategy) (Outcome, error) {
	if len(strategies) == 0 {
		return Outcome{}, errclass.Configuration("acquire", "no acquisition strategies configured")
	}

	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	attempts := make([]Attempt, 0, len(strategies))
	var lastErr error
	for _, s := range strategies {
		tries := 0
		var err error
		for {
			tries++
			var text string
			text, err = s.Fetch(item, workDir)
			if err == nil {
				return Outcome{
					Success:  true,
					Text:     text,
					Method:   s.Name(),
					Attempts: attempts,
				}, nil
			}

			class := errclass.Classify(err)
			if class == errclass.Fatal {
				attempts = append(attempts, newAttempt(s.Name(), err, class, tries))
				return Outcome{Attempts: attempts, Err: err}, err
			}
			if class == errclass.Retryable && tries <= c.MaxRetries {
				sleep(c.backoff(tries))
				continue
			}
			attempts = append(attempts, newAttempt(s.Name(), err, class, tries))
			lastErr = err
			break
		}
	}

	agg := fmt.Errorf("all %d acquisition strategies failed (%s): %w",
		len(strategies), describeAttempts(attempts), lastErr)
	return Outcome{Attempts: attempts, Err: agg}, nil
}

func (c *Chain) backoff(try int) time.Duration {
	d := c.BaseDelay
	if d <= 0 {
		d = 500 * time.Millisecond
	}
	for i := 1; i < try; i++ {
		d *= 2
	}
	return d
}

func newAttempt(name string, err error, class errclass.Class, tries int) Attempt {
	return Attempt{
		Strategy: name,
		Kind:     errclass.KindOf(err),
		Class:    class,
		Tries:    tries,
		Err:      err.Error(),
	}
}

func describeAttempts(attempts []Attempt) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Strategy, a.Class))
	}
	return strings.Join(parts, ", ")
}
