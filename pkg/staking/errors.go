package staking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrMissingSerialized = errors.New("unsigned_transaction_serialized not found in the response")
	ErrMissingHashed     = errors.New("unsigned_transaction_hashed not found in the response")
	ErrMissingTxHash     = errors.New("transaction_hash not found in the response")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.TrimSpace(e.Body)
	}
	return fmt.Sprintf("staking API error (status %d): %s", e.StatusCode, msg)
}

// errorEnvelope covers the two error shapes the API uses:
// {"error": "msg"} and {"error": {"code": ..., "message": "msg"}}.
type errorEnvelope struct {
	Error RawJSON `json:"error"`
}

type errorObject struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		return apiErr
	}

	var s string
	if err := json.Unmarshal(env.Error, &s); err == nil {
		apiErr.Message = s
		return apiErr
	}

	var obj errorObject
	if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
		apiErr.Message = obj.Message
	}
	return apiErr
}
