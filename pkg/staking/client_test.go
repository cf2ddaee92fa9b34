package staking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSerialized = "0x02f8b4824268808459682f00850c2a56f4b682c35094a627f94a8f94e4713d38f52ac3a6377b0a111d47"
	testHashed     = "0x8d1a5e6f4b1e1f3c1f6c9b7e2a9c6a52b1d8e3f4a5b6c7d8e9f0a1b2c3d4e5f6"
)

func validRequest() *CreateValidatorsRequest {
	return &CreateValidatorsRequest{
		Network:             "holesky",
		ValidatorsCount:     1,
		WithdrawalAddress:   "0x1111111111111111111111111111111111111111",
		FundingAddress:      "0x2222222222222222222222222222222222222222",
		FeeRecipientAddress: "0x3333333333333333333333333333333333333333",
		Region:              "ca-central-1",
	}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: url, APIKey: "test-key", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestCreateValidators_SendsFixedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ethereum/validators", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, map[string]interface{}{
			"network":               "holesky",
			"validators_count":      float64(1),
			"withdrawal_address":    "0x1111111111111111111111111111111111111111",
			"funding_address":       "0x2222222222222222222222222222222222222222",
			"fee_recipient_address": "0x3333333333333333333333333333333333333333",
			"region":                "ca-central-1",
		}, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"pubkey":"0xabc"}],"meta":{"staking_transaction":{` +
			`"unsigned_transaction_serialized":"` + testSerialized + `",` +
			`"unsigned_transaction_hashed":"` + testHashed + `"}}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).CreateValidators(context.Background(), validRequest())
	require.NoError(t, err)

	tx, err := resp.StakingTransaction()
	require.NoError(t, err)
	assert.Equal(t, testSerialized, tx.UnsignedTransactionSerialized)
	assert.Equal(t, testHashed, tx.UnsignedTransactionHashed)
	assert.JSONEq(t, `[{"pubkey":"0xabc"}]`, string(resp.Data))
}

func TestCreateValidators_InvalidRequestNeverHitsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	mutations := map[string]func(r *CreateValidatorsRequest){
		"no network":        func(r *CreateValidatorsRequest) { r.Network = "" },
		"zero count":        func(r *CreateValidatorsRequest) { r.ValidatorsCount = 0 },
		"bad withdrawal":    func(r *CreateValidatorsRequest) { r.WithdrawalAddress = "XXXXXX" },
		"bad funding":       func(r *CreateValidatorsRequest) { r.FundingAddress = "" },
		"bad fee recipient": func(r *CreateValidatorsRequest) { r.FeeRecipientAddress = "0x12" },
		"no region":         func(r *CreateValidatorsRequest) { r.Region = " " },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(req)
			_, err := c.CreateValidators(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	_, err := c.CreateValidators(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestCreateValidators_APIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"string error", http.StatusUnauthorized, `{"error":"invalid api key"}`, "invalid api key"},
		{"object error", http.StatusUnprocessableEntity, `{"error":{"code":"invalid","message":"bad withdrawal address"}}`, "bad withdrawal address"},
		{"plain body", http.StatusBadGateway, "upstream down", "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL).CreateValidators(context.Background(), validRequest())
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Error(), tt.wantMsg)
		})
	}
}

func TestCreateValidators_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).CreateValidators(context.Background(), validRequest())
	assert.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestCreateValidators_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv.URL).CreateValidators(ctx, validRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStakingTransaction_Extraction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"no meta", `{}`, ErrMissingSerialized},
		{"no staking_transaction", `{"meta":{}}`, ErrMissingSerialized},
		{"null staking_transaction", `{"meta":{"staking_transaction":null}}`, ErrMissingSerialized},
		{"missing serialized", `{"meta":{"staking_transaction":{"unsigned_transaction_hashed":"0xaa"}}}`, ErrMissingSerialized},
		{"empty serialized", `{"meta":{"staking_transaction":{"unsigned_transaction_serialized":"","unsigned_transaction_hashed":"0xaa"}}}`, ErrMissingSerialized},
		{"missing hashed", `{"meta":{"staking_transaction":{"unsigned_transaction_serialized":"0xbb"}}}`, ErrMissingHashed},
		{"both missing reports serialized", `{"meta":{"staking_transaction":{}}}`, ErrMissingSerialized},
		{"ok", `{"meta":{"staking_transaction":{"unsigned_transaction_serialized":"0xbb","unsigned_transaction_hashed":"0xaa"}}}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp CreateValidatorsResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			tx, err := resp.StakingTransaction()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0xbb", tx.UnsignedTransactionSerialized)
			assert.Equal(t, "0xaa", tx.UnsignedTransactionHashed)
		})
	}

	var nilResp *CreateValidatorsResponse
	_, err := nilResp.StakingTransaction()
	assert.ErrorIs(t, err, ErrMissingSerialized)
}

func TestBroadcast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ethereum/broadcast", r.URL.Path)

		var got BroadcastRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "holesky", got.Network)
		assert.Equal(t, "0xsig", got.Signature)
		assert.Equal(t, testSerialized, got.UnsignedTransactionSerialized)

		_, _ = w.Write([]byte(`{"data":{"transaction_hash":"0xfeed"}}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL).Broadcast(context.Background(), &BroadcastRequest{
		Network:                       "holesky",
		Signature:                     "0xsig",
		UnsignedTransactionSerialized: testSerialized,
	})
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", resp.Data.TransactionHash)
}

func TestBroadcast_MissingHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Broadcast(context.Background(), &BroadcastRequest{
		Network: "holesky", Signature: "0xsig", UnsignedTransactionSerialized: "0x01",
	})
	assert.ErrorIs(t, err, ErrMissingTxHash)
}

func TestBroadcast_InvalidRequest(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", APIKey: "k"})
	require.NoError(t, err)

	_, err = c.Broadcast(context.Background(), &BroadcastRequest{Network: "holesky"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "", APIKey: "k"})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://api.example.com", APIKey: " "})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "https://api.example.com/", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.baseURL)
	assert.Equal(t, defaultTimeout, c.httpClient.Timeout)
}
