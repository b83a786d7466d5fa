// These tests pin down the client behavior the pipeline relies on: bounded
// timeouts by default, retries only for transient failures, and final
// statuses (auth errors included) surfacing on the first attempt.

package httpds

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func noWait(c *Client) { c.wait = func(context.Context, time.Duration) error { return nil } }

// TestNewClient_Defaults verifies that NewClient applies sensible defaults
// and correctly sets TLS behavior when no custom Transport is supplied.
func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{InsecureSkipVerify: true})

	if c.httpClient.Timeout <= 0 {
		t.Fatalf("expected non-zero timeout, got %v", c.httpClient.Timeout)
	}
	if c.maxRetries != 0 {
		t.Fatalf("expected default maxRetries=0, got %d", c.maxRetries)
	}
	if c.initialBackoff <= 0 || c.maxBackoff <= 0 {
		t.Fatalf("expected positive backoff defaults, got %v/%v", c.initialBackoff, c.maxBackoff)
	}

	transport, ok := c.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.httpClient.Transport)
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify=true when configured")
	}
}

// TestGet_Success_NoRetry verifies that a successful 200 response returns
// immediately without retries, even when MaxRetries > 0.
func TestGet_Success_NoRetry(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{
		MaxRetries:     3,
		Timeout:        2 * time.Second,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
	})
	noWait(c)

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected exactly 1 request, got %d", got)
	}
}

// TestGet_RetryOn5xxThenSuccess verifies that the client retries on a 5xx
// status and returns the successful response once the server recovers.
func TestGet_RetryOn5xxThenSuccess(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{
		MaxRetries:     3,
		Timeout:        2 * time.Second,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})

	var waits []time.Duration
	c.wait = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts (2x500 + 1x200), got %d", got)
	}
	if len(waits) != 2 {
		t.Fatalf("expected 2 backoff waits, got %d (%v)", len(waits), waits)
	}
	if waits[1] <= waits[0] {
		t.Fatalf("expected growing backoff, got %v", waits)
	}
}

// TestGet_StopsAfterMaxRetries verifies that the client gives up once the
// retry budget is spent and every response remained retryable.
func TestGet_StopsAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{
		MaxRetries:     2, // initial + 2 retries = 3 attempts total
		Timeout:        2 * time.Second,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
	noWait(c)

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err == nil {
		resp.Body.Close()
		t.Fatalf("expected error after exhausting retries, got nil")
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts (1 initial + 2 retries), got %d", got)
	}
}

// TestGet_FinalStatusNoRetry verifies that a final status such as 403 comes
// back on the first attempt. The export endpoint rejects bad credentials the
// same way every time; retrying would only hammer it.
func TestGet_FinalStatusNoRetry(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Config{
		MaxRetries:     5,
		Timeout:        2 * time.Second,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})
	noWait(c)

	resp, err := c.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected 1 attempt for final status, got %d", got)
	}
}

// TestGet_BaseHeaders verifies base headers apply to every request and
// per-call headers override them.
func TestGet_BaseHeaders(t *testing.T) {
	t.Parallel()

	var gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	base := http.Header{}
	base.Set("Accept", "text/csv")
	base.Set("User-Agent", "surveyetl")

	c := NewClient(Config{Timeout: 2 * time.Second, BaseHeaders: base})
	noWait(c)

	override := http.Header{}
	override.Set("User-Agent", "surveyetl-probe")

	resp, err := c.Get(context.Background(), srv.URL, override)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	resp.Body.Close()

	if gotAccept != "text/csv" {
		t.Fatalf("Accept=%q want text/csv", gotAccept)
	}
	if gotAgent != "surveyetl-probe" {
		t.Fatalf("User-Agent=%q want override surveyetl-probe", gotAgent)
	}
}

// TestBackoffDuration verifies the exponential backoff logic with clamping
// at a maximum duration.
func TestBackoffDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		initial time.Duration
		attempt int
		max     time.Duration
		want    time.Duration
	}{
		{100 * time.Millisecond, 0, time.Second, 100 * time.Millisecond},
		{100 * time.Millisecond, 1, time.Second, 200 * time.Millisecond},
		{100 * time.Millisecond, 2, time.Second, 400 * time.Millisecond},
		{600 * time.Millisecond, 1, time.Second, time.Second}, // clamped to max
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.initial.String()+"/attempt="+strconv.Itoa(tt.attempt), func(t *testing.T) {
			t.Parallel()
			got := backoffDuration(tt.initial, tt.attempt, tt.max)
			if got != tt.want {
				t.Fatalf("backoffDuration(%v, %d, %v) = %v, want %v",
					tt.initial, tt.attempt, tt.max, got, tt.want)
			}
		})
	}
}

// TestIsRetryableStatus verifies that 5xx and 429 are considered retryable,
// while common final statuses are not.
func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	retryable := []int{429, 500, 503}
	final := []int{200, 400, 401, 403, 404}

	for _, code := range retryable {
		if !isRetryableStatus(code) {
			t.Fatalf("expected status %d to be retryable", code)
		}
	}
	for _, code := range final {
		if isRetryableStatus(code) {
			t.Fatalf("expected status %d to be final", code)
		}
	}
}

// TestCustomTransport ensures that a supplied Transport is used as-is and
// TLS settings from Config are not applied on top of it.
func TestCustomTransport(t *testing.T) {
	t.Parallel()

	customTransport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
	}
	c := NewClient(Config{
		Transport:          customTransport,
		InsecureSkipVerify: true, // ignored because Transport is provided
	})

	if !reflect.DeepEqual(c.httpClient.Transport, customTransport) {
		t.Fatalf("expected custom transport to be used")
	}
	tp, ok := c.httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.httpClient.Transport)
	}
	if tp.TLSClientConfig == nil || tp.TLSClientConfig.InsecureSkipVerify {
		t.Fatalf("expected InsecureSkipVerify=false when custom transport is provided")
	}
}

// TestWaitContext verifies that backoff waits abort when the context is
// canceled rather than running out the full duration.
func TestWaitContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := waitContext(ctx, 100*time.Millisecond); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := waitContext(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("expected nil after full wait, got %v", err)
	}
}
