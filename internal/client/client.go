// Package client talks to the Inspect HTTP API and keeps a locally held
// insight graph in step with mutation results.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	types "github.com/yungbote/inspect-backend/internal/domain"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:      strings.TrimSpace(cfg.Token),
		httpClient: httpClient,
	}
}

// HTTPError is a non-2xx response. Message is the server-provided message,
// falling back to the status text.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

type errorPayload struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeHTTPError(status int, raw []byte) *HTTPError {
	out := &HTTPError{StatusCode: status}
	var p errorPayload
	if err := json.Unmarshal(raw, &p); err == nil {
		out.Message = p.Error.Message
		out.Code = p.Error.Code
		if out.Message == "" {
			out.Message = p.Message
		}
	}
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeHTTPError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

type ListInsightsParams struct {
	Query    string
	Offset   int
	Limit    int
	Parents  bool
	Children bool
	Evidence bool
}

type GetInsightParams struct {
	Offset               int
	Limit                int
	NestedEvidenceTotals bool
}

// InsightPatch carries the mutable fields; nil means unchanged.
type InsightPatch struct {
	Title    *string `json:"title,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

type EvidenceInput struct {
	SummaryID uint64 `json:"summary_id"`
	InsightID uint64 `json:"insight_id"`
}

type ChildInput struct {
	ParentID uint64 `json:"parent_id"`
	ChildID  uint64 `json:"child_id"`
}

type CommentInput struct {
	Comment   string  `json:"comment"`
	InsightID *uint64 `json:"insight_id,omitempty"`
	SummaryID *uint64 `json:"summary_id,omitempty"`
}

type ReactionInput struct {
	Reaction  string  `json:"reaction"`
	InsightID *uint64 `json:"insight_id,omitempty"`
	SummaryID *uint64 `json:"summary_id,omitempty"`
	CommentID *uint64 `json:"comment_id,omitempty"`
}

func pageQuery(q url.Values, offset, limit int) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func setFlag(q url.Values, key string, on bool) {
	if on {
		q.Set(key, "1")
	}
}

func idPath(prefix string, id uint64) string {
	return prefix + "/" + strconv.FormatUint(id, 10)
}

func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var out struct {
		Me *types.User `json:"me"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Me, nil
}

func (c *Client) ListInsights(ctx context.Context, p ListInsightsParams) ([]*types.Insight, error) {
	q := pageQuery(nil, p.Offset, p.Limit)
	if p.Query != "" {
		q.Set("query", p.Query)
	}
	setFlag(q, "parents", p.Parents)
	setFlag(q, "children", p.Children)
	setFlag(q, "evidence", p.Evidence)
	var out []*types.Insight
	if err := c.do(ctx, http.MethodGet, "/api/insights", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetInsight(ctx context.Context, uid string, p GetInsightParams) (*types.Insight, error) {
	q := pageQuery(nil, p.Offset, p.Limit)
	setFlag(q, "nestedEvidenceTotals", p.NestedEvidenceTotals)
	var out types.Insight
	if err := c.do(ctx, http.MethodGet, "/api/insights/"+url.PathEscape(uid), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInsight(ctx context.Context, title string, isPublic bool) (*types.Insight, error) {
	var out types.Insight
	body := map[string]any{"title": title, "is_public": isPublic}
	if err := c.do(ctx, http.MethodPost, "/api/insights", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInsight(ctx context.Context, uid string, patch InsightPatch) (*types.Insight, error) {
	var out types.Insight
	if err := c.do(ctx, http.MethodPatch, "/api/insights/"+url.PathEscape(uid), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInsight(ctx context.Context, uid string) error {
	return c.do(ctx, http.MethodDelete, "/api/insights/"+url.PathEscape(uid), nil, nil, nil)
}

func (c *Client) Candidates(ctx context.Context, uid, query string, offset, limit int) ([]*types.Insight, error) {
	q := pageQuery(nil, offset, limit)
	if query != "" {
		q.Set("query", query)
	}
	var out []*types.Insight
	if err := c.do(ctx, http.MethodGet, "/api/insights/"+url.PathEscape(uid)+"/candidates", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateEvidence(ctx context.Context, rows []EvidenceInput) ([]*types.Evidence, error) {
	var out []*types.Evidence
	body := map[string]any{"evidence": rows}
	if err := c.do(ctx, http.MethodPost, "/api/evidence", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteEvidence(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/evidence", id), nil, nil, nil)
}

func (c *Client) CreateChildren(ctx context.Context, rows []ChildInput) ([]*types.InsightLink, error) {
	var out []*types.InsightLink
	body := map[string]any{"children": rows}
	if err := c.do(ctx, http.MethodPost, "/api/children", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteChild(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/children", id), nil, nil, nil)
}

func (c *Client) CreateComment(ctx context.Context, in CommentInput) (*types.Comment, error) {
	var out types.Comment
	if err := c.do(ctx, http.MethodPost, "/api/comments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/comments", id), nil, nil, nil)
}

func (c *Client) UpsertReaction(ctx context.Context, in ReactionInput) (*types.Reaction, error) {
	var out types.Reaction
	if err := c.do(ctx, http.MethodPost, "/api/reactions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReaction(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/reactions", id), nil, nil, nil)
}

func (c *Client) ListLinks(ctx context.Context, query string, offset, limit int) ([]*types.Link, error) {
	q := pageQuery(nil, offset, limit)
	if query != "" {
		q.Set("query", query)
	}
	var out []*types.Link
	if err := c.do(ctx, http.MethodGet, "/api/links", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLink(ctx context.Context, rawURL, title string) (*types.Link, error) {
	var out types.Link
	body := map[string]any{"url": rawURL, "title": title}
	if err := c.do(ctx, http.MethodPost, "/api/links", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLink(ctx context.Context, uid string) (*types.Link, error) {
	var out types.Link
	if err := c.do(ctx, http.MethodGet, "/api/links/"+url.PathEscape(uid), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLink(ctx context.Context, uid, title string) (*types.Link, error) {
	var out types.Link
	body := map[string]any{"title": title}
	if err := c.do(ctx, http.MethodPatch, "/api/links/"+url.PathEscape(uid), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLink(ctx context.Context, uid string) error {
	return c.do(ctx, http.MethodDelete, "/api/links/"+url.PathEscape(uid), nil, nil, nil)
}
