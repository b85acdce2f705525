// Package respond writes the API's JSON bodies: cached dataset payloads and
// the error envelope every handler shares.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/albapepper/scoracle-quiz/internal/cache"
)

// Code identifies an API error. Each code maps to one HTTP status.
type Code string

const (
	CodeMissingQuery   Code = "MISSING_QUERY"
	CodeMissingTeam    Code = "MISSING_TEAM"
	CodeInvalidLimit   Code = "INVALID_LIMIT"
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	CodeEmptyDataset   Code = "EMPTY_DATASET"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeInternal       Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeMissingQuery:   http.StatusBadRequest,
	CodeMissingTeam:    http.StatusBadRequest,
	CodeInvalidLimit:   http.StatusBadRequest,
	CodePlayerNotFound: http.StatusNotFound,
	CodeEmptyDataset:   http.StatusNotFound,
	CodeRateLimited:    http.StatusTooManyRequests,
	CodeInternal:       http.StatusInternalServerError,
}

// Status returns the HTTP status for the code. Unknown codes are 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrorBody is the payload inside ErrorResponse.
type ErrorBody struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse is the error envelope of every API error.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error writes the envelope for code with the status the code maps to.
func Error(w http.ResponseWriter, r *http.Request, code Code, message string) {
	ErrorDetail(w, r, code, message, "")
}

// ErrorDetail is Error with a detail string, typically the offending input.
func ErrorDetail(w http.ResponseWriter, r *http.Request, code Code, message, detail string) {
	body := ErrorBody{Code: code, Message: message, Detail: detail}
	if r != nil {
		body.RequestID = middleware.GetReqID(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code.Status())
	json.NewEncoder(w).Encode(ErrorResponse{Error: body})
}

// Cached writes an encoded dataset payload under its ETag, or a bare 304
// when the request's If-None-Match already names that ETag.
func Cached(w http.ResponseWriter, r *http.Request, data []byte, etag string, ttl time.Duration, hit bool) {
	w.Header().Set("ETag", etag)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")
	setCacheHeaders(w, ttl, hit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Uncached marshals v and writes it with caching disabled. Used for health
// checks and random rounds.
func Uncached(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func setCacheHeaders(w http.ResponseWriter, ttl time.Duration, hit bool) {
	maxAge := int(ttl.Seconds())
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
}
