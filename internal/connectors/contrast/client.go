package contrast

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/custodia-labs/appsec-mcp/internal/logger"
	"github.com/custodia-labs/appsec-mcp/internal/observability"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

// Client performs authenticated JSON requests against the platform.
type Client struct {
	cfg         *Config
	http        *http.Client
	rateLimiter *RateLimiter
	authHeader  string
}

// NewClient creates a client for cfg.
func NewClient(cfg *Config) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.ServiceKey))
	return &Client{
		cfg:         cfg,
		http:        &http.Client{Timeout: cfg.Timeout},
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
		authHeader:  creds,
	}
}

// OrgID returns the organisation all requests are scoped to.
func (c *Client) OrgID() string {
	return c.cfg.OrgID
}

// get issues a GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post issues a POST with a JSON body and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	target := c.cfg.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("API-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("contrast %s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		observability.PlatformRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	observability.PlatformRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if err := c.rateLimiter.CheckResponse(resp); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
			URL:        path,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// errorMessage extracts the platform's error text from a response body.
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))

	var envelope struct {
		Messages []string `json:"messages"`
		Message  string   `json:"message"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		if len(envelope.Messages) > 0 {
			return strings.Join(envelope.Messages, "; ")
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	msg := strings.TrimSpace(string(data))
	if msg == "" {
		return "no response body"
	}
	return msg
}

// orgPath builds "/ng/{org}" prefixed paths with escaped segments.
func (c *Client) orgPath(segments ...string) string {
	var b strings.Builder
	b.WriteString("/ng/")
	b.WriteString(url.PathEscape(c.cfg.OrgID))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// pageQuery returns the offset pagination parameters of an ng listing.
func pageQuery(pageSize, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("offset", strconv.Itoa(offset))
	return q
}
