package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldsync/mobilecore/internal/logging"
)

// probeTimeout caps the connectivity probe issued by CheckConnection.
const probeTimeout = 5 * time.Second

// healthPath is the endpoint probed by CheckConnection.
const healthPath = "/health"

// Client is the HTTP transport used by all backend calls. It injects the
// current bearer credential, assigns a request id, unwraps response
// envelopes, and converts every failure shape into a normalized *Error.
//
// A single Client instance is constructed at process start and shared by
// reference; SetAuthToken may be called at any time, including while
// requests are in flight. Each request reads the token at send time.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	log          logging.Logger
	probeTimeout time.Duration

	mu        sync.RWMutex
	authToken string
}

// NewClient builds a Client for the given base URL. timeout caps every
// regular request; the connectivity probe uses its own shorter cap.
func NewClient(baseURL string, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
		probeTimeout: probeTimeout,
	}
}

// SetProbeTimeout overrides the cap on the connectivity probe.
func (c *Client) SetProbeTimeout(d time.Duration) {
	if d > 0 {
		c.probeTimeout = d
	}
}

// SetAuthToken sets the bearer token attached to subsequent requests.
// An empty string clears it. Requests already queued are unaffected
// beyond reading whichever token is current when they are sent.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// Get issues a GET request and decodes the (unwrapped) response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return newRequestError(err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return newRequestError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// UploadFile sends r as a multipart/form-data file under fieldName,
// together with any extra form fields. Response handling is identical to
// the JSON verbs.
func (c *Client) UploadFile(ctx context.Context, path, fieldName, fileName string, r io.Reader, extra map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return newRequestError(err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return newRequestError(err)
	}
	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			return newRequestError(err)
		}
	}
	if err := w.Close(); err != nil {
		return newRequestError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return newRequestError(err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, out)
}

// serverError is the error shape the backend may include in a failed
// response, either at the top level or nested under "error".
type serverError struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

type errorEnvelope struct {
	serverError
	Nested *serverError `json:"error"`
}

// envelope detects the optional "data" wrapper around response payloads.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// send executes the prepared request and normalizes the outcome. This is
// the single place where failures are classified.
func (c *Client) send(req *http.Request, out any) error {
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := newTransportError(err)
		c.log.Warn(req.Context(), "request failed",
			"method", req.Method, "path", req.URL.Path, "kind", string(apiErr.Kind))
		return apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		_ = json.Unmarshal(respBody, &env)
		body := env.serverError
		if body.Message == "" && env.Nested != nil {
			body = *env.Nested
		}
		apiErr := newStatusError(resp.StatusCode, body)
		c.log.Warn(req.Context(), "request rejected",
			"method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return decodeBody(respBody, out)
}

// decodeBody unwraps the optional {"data": ...} envelope and decodes the
// payload into out. The rule is uniform for all verbs: if the body is an
// object carrying a non-null "data" field, that field is the payload;
// otherwise the raw body is.
func decodeBody(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:    KindUnknown,
			Message: defaultMessages[KindUnknown],
			Err:     err,
		}
	}
	return nil
}

// CheckConnection reports whether the backend answers its health
// endpoint within a short fixed timeout. All failure detail is discarded:
// this is a connectivity heuristic, not an error source.
func (c *Client) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
