package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.twilio.com"
	responseBodyReadLimit int64 = 1024
)

var (
	errAccountSIDRequired = errors.New("whatsapp account sid is required")
	errAuthTokenRequired  = errors.New("whatsapp auth token is required")
	errFromRequired       = errors.New("whatsapp from number is required")
)

// Client wraps the messaging provider's REST API for outbound WhatsApp sends.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the messaging client given the account credentials and
// the sending number (in `whatsapp:+<digits>` form).
func NewClient(accountSID, authToken, from string, opts ...Option) (*Client, error) {
	trimmedSID := strings.TrimSpace(accountSID)
	if trimmedSID == "" {
		return nil, errAccountSIDRequired
	}
	trimmedToken := strings.TrimSpace(authToken)
	if trimmedToken == "" {
		return nil, errAuthTokenRequired
	}
	trimmedFrom := strings.TrimSpace(from)
	if trimmedFrom == "" {
		return nil, errFromRequired
	}

	client := &Client{
		accountSID: trimmedSID,
		authToken:  trimmedToken,
		from:       trimmedFrom,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// SendMessage delivers one message to the destination number and returns the
// provider's message SID.
func (c *Client) SendMessage(ctx context.Context, to, body string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "whatsapp client not configured")
	}
	if strings.TrimSpace(to) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "destination number is required")
	}
	if strings.TrimSpace(body) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(c.baseURL, "/"), url.PathEscape(c.accountSID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build message request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute message request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "message request failed")
	}

	var apiResp struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode message response")
	}

	return apiResp.SID, nil
}
