package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 1 << 20

// StatusError describes a non-2xx response from a downstream service.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
}

// downstreamError accepts both the flat {status, error, message} envelope and
// the nested {"error": {code, message}} form.
type downstreamError struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Error   json.RawMessage `json:"error"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// returns it as a *StatusError, keeping the downstream message when the body
// is a recognised JSON error envelope.
func ParseResponseError(resp *http.Response, service string) error {
	defer func() { _ = resp.Body.Close() }()

	statusErr := &StatusError{Service: service, StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		statusErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return statusErr
	}

	var envelope downstreamError
	if json.Unmarshal(body, &envelope) == nil {
		statusErr.Message = envelope.Message
		statusErr.Code = envelope.Code

		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &nested) == nil {
			if statusErr.Message == "" {
				statusErr.Message = nested.Message
			}
			if statusErr.Code == "" {
				statusErr.Code = nested.Code
			}
		}
		if statusErr.Message != "" || statusErr.Code != "" {
			return statusErr
		}
	}

	statusErr.Message = strings.TrimSpace(string(body))
	return statusErr
}

// StatusCode returns the downstream status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
