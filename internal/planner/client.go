package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/hmelgaard/rota/internal/config"
	"github.com/hmelgaard/rota/internal/logging"
)

// ServiceError is a non-2xx reply from the plan service.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("plan service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("plan service returned status %d: %s", e.StatusCode, e.Message)
}

// Client calls the plan service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a plan service client from config.
func NewClient(cfg config.PlannerConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.Component("planner"),
	}
}

// Validate checks a request before it goes over the wire.
func (r *Request) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Skill, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Duration, validation.Required),
		validation.Field(&r.HoursPerWeek, validation.Required, validation.Min(1), validation.Max(168)),
		validation.Field(&r.Difficulty, validation.Required,
			validation.In(DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced)),
	)
}

// Generate requests a learning plan. Generation can take minutes on the
// service side; callers should pass a context they are willing to wait on.
func (c *Client) Generate(ctx context.Context, req *Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan request: %w", err)
	}

	endpoint, err := url.JoinPath(c.baseURL, "generate-plan")
	if err != nil {
		return nil, fmt.Errorf("build plan URL: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode plan request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build plan request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug().
		Str("url", endpoint).
		Str("skill", req.Skill).
		Interface("headers", logging.RedactHeaders(httpReq.Header)).
		Msg("requesting plan")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("plan request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	var plan Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("decode plan response: %w", err)
	}

	if len(plan.WeeklyPlans) == 0 {
		return nil, fmt.Errorf("plan service returned no weekly plans")
	}
	if plan.TotalWeeks == 0 {
		plan.TotalWeeks = len(plan.WeeklyPlans)
	}

	c.logger.Info().
		Str("skill", plan.Skill).
		Int("total_weeks", plan.TotalWeeks).
		Dur("elapsed", time.Since(start)).
		Msg("plan generated")

	return &plan, nil
}

// readErrorMessage pulls a human-readable message out of an error body.
// The service replies with {"detail": "..."} on failures; anything else is
// used verbatim, truncated.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}

	message := strings.TrimSpace(string(raw))
	if len(message) > 200 {
		message = message[:200]
	}
	return message
}
