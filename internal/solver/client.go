package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/pkg/config"
)

// Error reports a failure the solver itself signalled via a 500 result.
// It is terminal: polling stops and the detail is propagated verbatim.
type Error struct {
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Detail
}

// Client talks to the external constraint solver over its job-submission
// and polling protocol.
type Client struct {
	baseURL         string
	http            *http.Client
	pollInterval    time.Duration
	maxPollFailures int
	pollDeadline    time.Duration
	logger          *zap.Logger
}

// NewClient constructs a solver client with sane defaults.
func NewClient(cfg config.SolverConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            &http.Client{Timeout: timeout},
		pollInterval:    interval,
		maxPollFailures: cfg.MaxPollFailures,
		pollDeadline:    cfg.PollDeadline,
		logger:          logger,
	}
}

// Submit posts the solve request and returns the opaque job id. Submission
// is never retried: any transport error or non-2xx response fails the run.
func (c *Client) Submit(ctx context.Context, req dto.SolveRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode solve request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/solve", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build solve request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("submit solve request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("solver rejected submission with status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var submitResp dto.SolveSubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitResp); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if submitResp.JobID == "" {
		return "", fmt.Errorf("solver returned an empty job id")
	}
	return submitResp.JobID, nil
}

// AwaitResult polls the job until the solver reports a terminal outcome.
// A 200 completes the job (including infeasible results), a 500 fails it
// with the solver's detail. Any other status means "not ready yet".
// Transport errors are transient and retried with exponential backoff up to
// the configured failure budget; cancelling ctx abandons the poll loop but
// does not retract the remote job.
func (c *Client) AwaitResult(ctx context.Context, jobID string) (*dto.SolverJobResult, error) {
	if c.pollDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.pollDeadline)
		defer cancel()
	}

	failures := 0
	backoff := c.pollInterval
	for {
		result, retry, err := c.pollOnce(ctx, jobID)
		switch {
		case err != nil && retry:
			failures++
			if c.maxPollFailures > 0 && failures >= c.maxPollFailures {
				return nil, fmt.Errorf("gave up polling job %s after %d transport failures: %w", jobID, failures, err)
			}
			c.logger.Warn("solver poll failed, retrying",
				zap.String("job_id", jobID),
				zap.Int("failures", failures),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, err
			}
			backoff = nextBackoff(backoff, c.pollInterval)
		case err != nil:
			return nil, err
		case result != nil:
			return result, nil
		default:
			// Not ready yet.
			failures = 0
			backoff = c.pollInterval
			if err := c.sleep(ctx, c.pollInterval); err != nil {
				return nil, err
			}
		}
	}
}

// pollOnce performs a single result fetch. retry=true marks a transient
// condition; a nil result with retry=false and a non-nil err is terminal.
func (c *Client) pollOnce(ctx context.Context, jobID string) (*dto.SolverJobResult, bool, error) {
	url := fmt.Sprintf("%s/v1/jobs/%s/result", c.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build poll request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("poll job result: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var result dto.SolverJobResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, false, fmt.Errorf("decode job result: %w", err)
		}
		return &result, false, nil
	case http.StatusInternalServerError:
		var detail dto.SolverErrorDetail
		if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil || detail.Detail == "" {
			detail.Detail = "solver job failed without detail"
		}
		return nil, false, &Error{Detail: detail.Detail}
	default:
		return nil, true, nil
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base time.Duration) time.Duration {
	next := current * 2
	ceiling := 10 * base
	if ceiling <= 0 {
		ceiling = 30 * time.Second
	}
	if next > ceiling {
		return ceiling
	}
	return next
}
