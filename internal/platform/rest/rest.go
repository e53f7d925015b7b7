// Package rest is the thin HTTP layer shared by the backend adapters. It
// owns the base URL, the Authorization header convention, and the mapping
// from HTTP outcomes to the client error taxonomy.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	apperrors "eqviz/internal/platform/errors"
)

type Client struct {
	base   string
	scheme string // Authorization header scheme, e.g. "Token"
	http   *http.Client
}

func New(baseURL, tokenScheme string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		scheme: tokenScheme,
		http:   httpClient,
	}
}

// GetJSON issues an authenticated GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, token, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, token, path, nil, "", out)
}

// PostJSON issues a POST with a JSON body. token may be empty for the auth
// endpoints. out may be nil when the body is irrelevant.
func (c *Client) PostJSON(ctx context.Context, token, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, token, path, bytes.NewReader(payload), "application/json", out)
}

// Delete issues an authenticated DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, token, path string) error {
	return c.doJSON(ctx, http.MethodDelete, token, path, nil, "", nil)
}

// PostMultipart uploads r as a single file field and decodes the JSON
// response into out.
func (c *Client) PostMultipart(ctx context.Context, token, path, field, filename string, r io.Reader, out any) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, token, path, &body, w.FormDataContentType(), out)
}

// GetBytes issues an authenticated GET and returns the raw response body,
// for binary payloads.
func (c *Client) GetBytes(ctx context.Context, token, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, token, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := responseError(resp, token != ""); err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Network(err)
	}
	return payload, nil
}

func (c *Client) doJSON(ctx context.Context, method, token, path string, body io.Reader, contentType string, out any) error {
	resp, err := c.do(ctx, method, token, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := responseError(resp, token != ""); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ServerRejected("unexpected response from server")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, token, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", c.scheme+" "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Network(err)
	}
	return resp, nil
}

// responseError maps a non-2xx response to the error taxonomy, extracting
// the most specific message the body offers. A 401/403 means an expired
// session only when the call actually carried a token; an anonymous call
// (login with a wrong password) keeps the server's own message.
func responseError(resp *http.Response, authed bool) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return apperrors.AuthExpired()
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := bodyMessage(body)
	if msg == "" {
		msg = resp.Status
	}
	return apperrors.ServerRejected(msg)
}

// bodyMessage digs a message out of the backend's two error shapes:
// {"error": "..."} and the registration field-error map
// {"username": ["taken"], ...}. Anything else is returned verbatim.
func bodyMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var withError struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &withError); err == nil && withError.Error != "" {
		return withError.Error
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+fieldText(fields[k]))
		}
		return strings.Join(parts, "; ")
	}

	return trimmed
}

func fieldText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
