package staking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LumeraProtocol/stakesign/pkg/logtrace"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawJSON is a raw, undecoded JSON value.
type RawJSON = jsoniter.RawMessage

const (
	validatorsPath = "/ethereum/validators"
	broadcastPath  = "/ethereum/broadcast"

	headerAPIKey = "x-api-key"

	defaultTimeout = 30 * time.Second
	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 8 << 20
)

// Config holds the client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client handles staking API interactions
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new staking API client
func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid staking API base URL %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("staking API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: httpClient,
	}, nil
}

// CreateValidators requests the creation of new validators and returns the
// unsigned staking transaction. The request is validated and fully encoded
// before any network traffic happens.
func (c *Client) CreateValidators(ctx context.Context, req *CreateValidatorsRequest) (*CreateValidatorsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := logtrace.Fields{
		logtrace.FieldMethod:  "CreateValidators",
		logtrace.FieldModule:  logtrace.ValueStakingAPI,
		logtrace.FieldNetwork: req.Network,
		logtrace.FieldCount:   req.ValidatorsCount,
		logtrace.FieldRegion:  req.Region,
	}

	var resp CreateValidatorsResponse
	if err := c.post(ctx, validatorsPath, req, &resp, fields); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Broadcast submits a signed transaction and returns its hash.
func (c *Client) Broadcast(ctx context.Context, req *BroadcastRequest) (*BroadcastResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := logtrace.Fields{
		logtrace.FieldMethod:  "Broadcast",
		logtrace.FieldModule:  logtrace.ValueStakingAPI,
		logtrace.FieldNetwork: req.Network,
	}

	var resp BroadcastResponse
	if err := c.post(ctx, broadcastPath, req, &resp, fields); err != nil {
		return nil, err
	}
	if resp.Data.TransactionHash == "" {
		return nil, ErrMissingTxHash
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}, fields logtrace.Fields) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set(headerAPIKey, c.apiKey)

	fields = logtrace.WithFields(fields, logtrace.Fields{logtrace.FieldURL: endpoint})
	logtrace.Debug(ctx, "sending staking API request", fields)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logtrace.Error(ctx, "staking API request failed", logtrace.WithFields(fields, logtrace.Fields{
			logtrace.FieldError: err.Error(),
		}))
		return fmt.Errorf("failed to call staking API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	fields = logtrace.WithFields(fields, logtrace.Fields{logtrace.FieldStatus: resp.StatusCode})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, data)
		logtrace.Error(ctx, "staking API returned an error", logtrace.WithFields(fields, logtrace.Fields{
			logtrace.FieldError: apiErr.Error(),
		}))
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	logtrace.Debug(ctx, "staking API request succeeded", fields)
	return nil
}
