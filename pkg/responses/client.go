package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rhuss/responses-go/pkg/credentials"
	"github.com/rhuss/responses-go/pkg/debug"
	"github.com/rhuss/responses-go/pkg/observability"
)

// Version identifies this client in the User-Agent header.
const Version = "0.3.0"

const defaultTimeout = 120 * time.Second

// Client calls the Responses API. It is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	creds        credentials.Provider
	organization string
	project      string
	userAgent    string
	metrics      *observability.Metrics
	validate     bool
}

// New creates a Client. Without WithAPIKey or WithCredentials the key is
// read from the OPENAI_API_KEY environment variable on each request.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		creds:      credentials.FromEnv(),
		userAgent:  "responses-go/" + Version,
		validate:   true,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Create generates a response synchronously. The request's Stream field is
// ignored; use Stream for incremental delivery.
func (c *Client) Create(ctx context.Context, req *Request) (*Response, error) {
	body, model, err := c.encodeBody(req, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.do(ctx, http.MethodPost, "/responses", bytes.NewReader(body), false)
	if err != nil {
		c.metrics.ObserveRequest("create", model, "error", time.Since(start).Seconds())
		return nil, err
	}
	defer httpResp.Body.Close()

	resp, err := c.decodeBody(httpResp)
	c.metrics.ObserveRequest("create", model, statusClass(httpResp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if resp.Usage != nil {
		c.metrics.ObserveUsage(string(resp.Model), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}
	return resp, nil
}

// Stream generates a response incrementally. The returned Stream yields
// events in arrival order until a terminal event, after which Recv returns
// io.EOF. The request's Stream field is ignored; it is always sent as true.
//
// The HTTP client timeout does not apply: a stream can legitimately outlast
// any fixed timeout, so lifecycle control relies on ctx and Close.
func (c *Client) Stream(ctx context.Context, req *Request) (*Stream, error) {
	body, model, err := c.encodeBody(req, true)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	start := time.Now()
	httpResp, err := c.do(ctx, http.MethodPost, "/responses", bytes.NewReader(body), true)
	if err != nil {
		cancel()
		c.metrics.ObserveRequest("stream", model, "error", time.Since(start).Seconds())
		return nil, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		payload, _ := io.ReadAll(httpResp.Body)
		httpResp.Body.Close()
		cancel()
		c.metrics.ObserveRequest("stream", model, statusClass(httpResp.StatusCode), time.Since(start).Seconds())
		return nil, decodeAPIError(httpResp.StatusCode, payload)
	}

	c.metrics.ObserveRequest("stream", model, statusClass(httpResp.StatusCode), time.Since(start).Seconds())

	s := newStream(httpResp.Body, cancel)
	s.metrics = c.metrics
	return s, nil
}

// Get retrieves a previously stored response by ID. Optional include values
// request extra fields the server omits by default.
func (c *Client) Get(ctx context.Context, id string, include ...Include) (*Response, error) {
	if err := checkResponseID(id); err != nil {
		return nil, err
	}

	path := "/responses/" + url.PathEscape(id)
	if len(include) > 0 {
		q := url.Values{}
		for _, inc := range include {
			q.Add("include[]", string(inc))
		}
		path += "?" + q.Encode()
	}

	start := time.Now()
	httpResp, err := c.do(ctx, http.MethodGet, path, nil, false)
	if err != nil {
		c.metrics.ObserveRequest("get", "unknown", "error", time.Since(start).Seconds())
		return nil, err
	}
	defer httpResp.Body.Close()

	resp, err := c.decodeBody(httpResp)
	c.metrics.ObserveRequest("get", "unknown", statusClass(httpResp.StatusCode), time.Since(start).Seconds())
	return resp, err
}

// Delete removes a stored response by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := checkResponseID(id); err != nil {
		return err
	}

	start := time.Now()
	httpResp, err := c.do(ctx, http.MethodDelete, "/responses/"+url.PathEscape(id), nil, false)
	if err != nil {
		c.metrics.ObserveRequest("delete", "unknown", "error", time.Since(start).Seconds())
		return err
	}
	defer httpResp.Body.Close()

	c.metrics.ObserveRequest("delete", "unknown", statusClass(httpResp.StatusCode), time.Since(start).Seconds())

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		payload, _ := io.ReadAll(httpResp.Body)
		return decodeAPIError(httpResp.StatusCode, payload)
	}
	return nil
}

// ListInputItems returns the input items of a stored response.
func (c *Client) ListInputItems(ctx context.Context, id string) (*InputItemList, error) {
	if err := checkResponseID(id); err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.do(ctx, http.MethodGet, "/responses/"+url.PathEscape(id)+"/inputs", nil, false)
	if err != nil {
		c.metrics.ObserveRequest("list_input_items", "unknown", "error", time.Since(start).Seconds())
		return nil, err
	}
	defer httpResp.Body.Close()

	c.metrics.ObserveRequest("list_input_items", "unknown", statusClass(httpResp.StatusCode), time.Since(start).Seconds())

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response body", Cause: err}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, decodeAPIError(httpResp.StatusCode, payload)
	}

	var list InputItemList
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, &ProtocolMismatchError{
			Reason: "undecodable input item list",
			Cause:  err,
			Raw:    append([]byte(nil), payload...),
		}
	}
	return &list, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// encodeBody serializes req with the stream flag forced to the given value,
// returning the body and the model label for metrics.
func (c *Client) encodeBody(req *Request, stream bool) ([]byte, string, error) {
	if req == nil {
		return nil, "unknown", NewInvalidRequestError("", "request is nil")
	}

	reqCopy := *req
	reqCopy.Stream = &stream

	var body []byte
	var err error
	if c.validate {
		body, err = EncodeRequest(&reqCopy)
	} else {
		body, err = json.Marshal(&reqCopy)
		if err != nil {
			err = NewInvalidRequestError("", err.Error())
		}
	}
	if err != nil {
		return nil, string(req.Model), err
	}
	return body, string(req.Model), nil
}

// decodeBody reads and decodes one non-streaming exchange.
func (c *Client) decodeBody(httpResp *http.Response) (*Response, error) {
	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response body", Cause: err}
	}
	debug.Trace("http", "response body", "status", httpResp.StatusCode, "body", debug.Truncate(string(payload), 2048))
	return DecodeResponse(httpResp.StatusCode, payload)
}

// do builds and sends one HTTP request with the standard header set.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, stream bool) (*http.Response, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, NewInvalidRequestError("api_key", err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, NewInvalidRequestError("", "building HTTP request: "+err.Error())
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if c.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.organization)
	}
	if c.project != "" {
		httpReq.Header.Set("OpenAI-Project", c.project)
	}

	debug.Log("http", "request", "method", method, "url", c.baseURL+path, "request_id", httpReq.Header.Get("X-Request-ID"))

	client := c.httpClient
	if stream {
		// No fixed timeout on streams; the context controls the lifetime.
		client = &http.Client{Transport: c.httpClient.Transport}
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Cause: err}
	}
	return httpResp, nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
