package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds each downstream call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Client issues bounded JSON calls to downstream services. It holds no
// request state; one Client is shared by all gateway handlers.
type Client struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Log        zerolog.Logger
}

// New returns a Client with the given per-call timeout.
func New(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTPClient: &http.Client{},
		Timeout:    timeout,
		Log:        log,
	}
}

// Call names one downstream capability of an aggregated request.
type Call struct {
	Capability string // key in the aggregated results map
	URL        string
	Payload    any
}

// Result is the aggregate of a fan-out: parsed bodies for the capabilities
// that succeeded and one warning per capability that did not. Warnings keep
// the declaration order of the calls.
type Result struct {
	Results  map[string]any
	Warnings []string
}

// FanOut issues every call concurrently, each bounded by its own timeout,
// and collects whichever succeed. Downstream failures become warnings and
// are never returned as errors.
func (c *Client) FanOut(ctx context.Context, calls []Call) Result {
	type outcome struct {
		body    any
		warning string
	}
	outcomes := make([]outcome, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call Call) {
			defer wg.Done()
			body, warning := c.callOne(ctx, call)
			outcomes[i] = outcome{body: body, warning: warning}
		}(i, call)
	}
	wg.Wait()

	res := Result{Results: map[string]any{}}
	for i, call := range calls {
		if outcomes[i].warning != "" {
			res.Warnings = append(res.Warnings, outcomes[i].warning)
			continue
		}
		res.Results[call.Capability] = outcomes[i].body
	}
	return res
}

// callOne runs one bounded call and classifies its outcome. The returned
// warning is empty on success.
func (c *Client) callOne(ctx context.Context, call Call) (any, string) {
	status, body, err := c.post(ctx, call.URL, call.Payload)
	switch {
	case err != nil && IsTimeout(err):
		c.Log.Warn().Str("capability", call.Capability).Dur("timeout", c.Timeout).Msg("downstream timeout")
		return nil, fmt.Sprintf("%s service timeout", call.Capability)
	case err != nil:
		c.Log.Warn().Str("capability", call.Capability).Err(err).Msg("downstream unreachable")
		return nil, fmt.Sprintf("%s service unavailable", call.Capability)
	case status < 200 || status >= 300:
		c.Log.Warn().Str("capability", call.Capability).Int("status", status).Msg("downstream error")
		return nil, fmt.Sprintf("%s service error: status %d", call.Capability, status)
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.Log.Warn().Str("capability", call.Capability).Err(err).Msg("downstream returned invalid JSON")
		return nil, fmt.Sprintf("%s service returned invalid response", call.Capability)
	}
	return parsed, ""
}

// Forward issues one bounded call for a pass-through endpoint and returns
// the downstream status and body verbatim.
func (c *Client) Forward(ctx context.Context, url string, payload any) (int, []byte, error) {
	return c.post(ctx, url, payload)
}

func (c *Client) post(ctx context.Context, url string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return res.StatusCode, body, nil
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	// url.Error sometimes wraps the deadline into its message only.
	return strings.Contains(err.Error(), "context deadline exceeded")
}
