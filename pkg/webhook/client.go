// Package webhook is the client for the n8n automation endpoints that feed
// the dashboard: billing records, opportunity surveys, the agent report and
// the classification side channels.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lisboa-tech/olympo-cli/internal/billing"
	"github.com/lisboa-tech/olympo-cli/internal/opportunity"
	"github.com/lisboa-tech/olympo-cli/internal/rubric"
)

// Options configures the webhook client.
type Options struct {
	BillingURL       string
	OpportunitiesURL string
	AgentURL         string
	AnalysisURL      string
	RegisterURL      string

	Timeout        time.Duration // per-request; default 20s
	AgentTimeout   time.Duration // the agent endpoint is slow; default 30s
	MaxRetries     int           // retries after the first attempt
	RequestsPerSec float64       // 0 disables rate limiting
}

// Client talks to the n8n webhooks. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	opts       Options
	limiter    *rate.Limiter
}

// NewClient creates a webhook client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.AgentTimeout == 0 {
		opts.AgentTimeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.AgentTimeout},
		opts:       opts,
		limiter:    limiter,
	}
}

// BillingPayload is the billing webhook response: variable usage events
// plus fixed-fee rows, still in their raw string form.
type BillingPayload struct {
	Usage []billing.UsageRecord    `json:"variavel"`
	Fees  []billing.FixedFeeRecord `json:"fixo"`
}

// FetchBilling retrieves the raw usage and fixed-fee records.
func (c *Client) FetchBilling(ctx context.Context) (*BillingPayload, error) {
	var payload BillingPayload
	if err := c.getJSON(ctx, c.opts.BillingURL, c.opts.Timeout, &payload); err != nil {
		return nil, eris.Wrap(err, "webhook: fetch billing")
	}

	zap.L().Debug("webhook: billing fetched",
		zap.Int("usage_records", len(payload.Usage)),
		zap.Int("fee_records", len(payload.Fees)),
	)
	return &payload, nil
}

// FetchOpportunities retrieves the growth-potential survey records,
// already normalized.
func (c *Client) FetchOpportunities(ctx context.Context) ([]opportunity.Record, error) {
	var records []opportunity.Record
	if err := c.getJSON(ctx, c.opts.OpportunitiesURL, c.opts.Timeout, &records); err != nil {
		return nil, eris.Wrap(err, "webhook: fetch opportunities")
	}
	return opportunity.Normalize(records), nil
}

// FetchAll retrieves billing and opportunity data concurrently.
func (c *Client) FetchAll(ctx context.Context) (*BillingPayload, []opportunity.Record, error) {
	var (
		payload *BillingPayload
		records []opportunity.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.FetchBilling(gctx)
		payload = p
		return err
	})
	g.Go(func() error {
		r, err := c.FetchOpportunities(gctx)
		records = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return payload, records, nil
}

// AgentReport asks the analysis agent for its free-text report over a
// period/client selection.
func (c *Client) AgentReport(ctx context.Context, period, client string) (string, error) {
	u, err := url.Parse(c.opts.AgentURL)
	if err != nil {
		return "", eris.Wrap(err, "webhook: parse agent url")
	}
	q := u.Query()
	q.Set("periodo", period)
	q.Set("cliente", client)
	u.RawQuery = q.Encode()

	body, err := c.do(ctx, http.MethodGet, u.String(), nil, c.opts.AgentTimeout)
	if err != nil {
		return "", eris.Wrap(err, "webhook: agent report")
	}
	return string(body), nil
}

// HasAnalysis reports whether the analysis agent endpoint is configured.
func (c *Client) HasAnalysis() bool {
	return c.opts.AnalysisURL != ""
}

// SubmitAnalysis posts a classification submission to the analysis agent
// and returns its structured verdict commentary. Upstream answers with a
// single-element JSON array.
func (c *Client) SubmitAnalysis(ctx context.Context, answers rubric.Answers) (map[string]any, error) {
	body, err := c.postJSON(ctx, c.opts.AnalysisURL, answers)
	if err != nil {
		return nil, eris.Wrap(err, "webhook: submit analysis")
	}

	var results []map[string]any
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "webhook: decode analysis response")
	}
	if len(results) == 0 {
		return nil, eris.New("webhook: empty analysis response")
	}
	return results[0], nil
}

// Submission is the audit record posted after every classification.
type Submission struct {
	ID      string         `json:"submission_id"`
	Client  string         `json:"nome_do_cliente"`
	Answers rubric.Answers `json:"respostas"`
	Verdict rubric.Verdict `json:"resultado"`
}

// RegisterSubmission posts the classification outcome to the audit
// webhook. Each submission gets a fresh id so downstream dedup works.
func (c *Client) RegisterSubmission(ctx context.Context, client string, answers rubric.Answers, verdict rubric.Verdict) (string, error) {
	sub := Submission{
		ID:      uuid.NewString(),
		Client:  client,
		Answers: answers,
		Verdict: verdict,
	}

	if _, err := c.postJSON(ctx, c.opts.RegisterURL, sub); err != nil {
		return "", eris.Wrap(err, "webhook: register submission")
	}

	zap.L().Info("webhook: submission registered",
		zap.String("submission_id", sub.ID),
		zap.String("client", client),
		zap.String("verdict", string(verdict)),
	)
	return sub.ID, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, timeout time.Duration, out any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, nil, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, rawURL string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "encode payload")
	}
	return c.do(ctx, http.MethodPost, rawURL, data, c.opts.Timeout)
}

// do performs one HTTP exchange with rate limiting and retry. 5xx answers
// and transport errors are retried with linear backoff; 4xx are not.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, timeout time.Duration) ([]byte, error) {
	if rawURL == "" {
		return nil, eris.New("webhook url not configured")
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			zap.L().Warn("webhook: retrying request",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "request cancelled")
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "rate limit wait")
			}
		}

		data, retryable, err := c.attempt(ctx, method, rawURL, body, timeout)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, rawURL string, body []byte, timeout time.Duration) ([]byte, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, reader)
	if err != nil {
		return nil, false, eris.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, eris.Wrap(err, "read response body")
	}

	if resp.StatusCode >= 500 {
		return nil, true, eris.New(fmt.Sprintf("upstream status %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, false, eris.New(fmt.Sprintf("upstream status %d", resp.StatusCode))
	}

	return data, false, nil
}
