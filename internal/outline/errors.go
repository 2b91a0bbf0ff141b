// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"errors"
	"net/http"

	"github.com/pdiddy/note-outline/internal/httputil"
	"github.com/pdiddy/note-outline/internal/search"
)

// Kind classifies request failures.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindConfig
	KindUpstream
)

// HTTPStatus returns the response status for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a request failure that maps onto an HTTP response.
type Error struct {
	Kind    Kind
	Message string
	Detail  string

	// UpstreamStatus is the search API status for KindUpstream.
	UpstreamStatus int

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Status int    `json:"status,omitempty"`
}

// Body returns the JSON response body for e.
func (e *Error) Body() ErrorBody {
	return ErrorBody{Error: e.Message, Detail: e.Detail, Status: e.UpstreamStatus}
}

// Unauthorized is returned by the authenticator.
var Unauthorized = &Error{Kind: KindAuth, Message: "Unauthorized"}

// ErrMissingQuery is returned for an empty or whitespace-only query.
var ErrMissingQuery = &Error{Kind: KindValidation, Message: "Missing query", Detail: "provide q (GET) or query (POST)"}

// Classify maps err onto an *Error. Known search failures get their own
// kinds; anything else becomes an internal error with a truncated message.
func Classify(err error) *Error {
	var oe *Error
	if errors.As(err, &oe) {
		return oe
	}
	if errors.Is(err, search.ErrMissingAPIKey) {
		return &Error{Kind: KindConfig, Message: "SERPAPI_KEY is not set", Err: err}
	}
	var se *search.StatusError
	if errors.As(err, &se) {
		return &Error{
			Kind:           KindUpstream,
			Message:        "Search API error",
			Detail:         se.Body,
			UpstreamStatus: se.StatusCode,
			Err:            err,
		}
	}
	return Internal(err)
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	detail := ""
	if err != nil {
		detail = httputil.Truncate(err.Error(), httputil.SnippetLimit)
	}
	return &Error{Kind: KindInternal, Message: "Internal error", Detail: detail, Err: err}
}
