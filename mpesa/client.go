// Package mpesa talks to the Safaricom Daraja API.
package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	oauthPath       = "/oauth/v1/generate"
	b2cPath         = "/mpesa/b2c/v1/paymentrequest"
	c2bRegisterPath = "/mpesa/c2b/v1/registerurl"
	c2bSimulatePath = "/mpesa/c2b/v1/simulate"
	stkPushPath     = "/mpesa/stkpush/v1/processrequest"

	timestampLayout = "20060102150405"
)

var ErrMissingCredentials = errors.New("mpesa consumer credentials are not set")

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// Response is the gateway's reply, kept verbatim so callers can pass it on.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// GatewayError is a non-2xx answer from the OAuth endpoint.
type GatewayError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("mpesa gateway returned %d: %s", e.StatusCode, string(e.Body))
}

type Client struct {
	http   *resty.Client
	key    string
	secret string
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		key:    cfg.ConsumerKey,
		secret: cfg.ConsumerSecret,
		now:    time.Now,
	}
}

// Timestamp formats t the way Daraja expects in STK requests.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Password is the STK push password: base64(shortcode + passkey + timestamp).
func Password(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.key == "" || c.secret == "" {
		return "", ErrMissingCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   string `json:"expires_in"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.key, c.secret).
		SetQueryParam("grant_type", "client_credentials").
		SetResult(&out).
		Get(oauthPath)
	if err != nil {
		return "", fmt.Errorf("mpesa token request: %w", err)
	}
	if resp.IsError() {
		return "", &GatewayError{StatusCode: resp.StatusCode(), Body: resp.Body()}
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("token not found in response: %s", string(resp.Body()))
	}

	ttl, err := strconv.Atoi(out.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3599
	}
	c.token = out.AccessToken
	// refresh a minute early so a token never expires mid-request
	c.tokenExpiry = c.now().Add(time.Duration(ttl)*time.Second - time.Minute)
	return c.token, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*Response, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("mpesa request %s: %w", path, err)
	}
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}
