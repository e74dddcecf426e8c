package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrNetwork              = errors.New("network error")
	ErrHTTP                 = errors.New("http error")
	ErrInvalidResponseShape = errors.New("invalid response shape")
	ErrValidation           = errors.New("validation failed")
	ErrBusy                 = errors.New("another operation is in progress")
	ErrImageConversion      = errors.New("image conversion failed")
)

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.Status, e.Message)
}

func (e *HTTPError) Is(target error) bool { return target == ErrHTTP }

// Temporary reports whether the status is worth retrying: 5xx, 408 and 429.
func (e *HTTPError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError ||
		e.Status == http.StatusRequestTimeout ||
		e.Status == http.StatusTooManyRequests
}

// ValidationError maps form fields to the reason they were rejected.
type ValidationError struct {
	Fields map[string]string
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

// Set records msg for field, replacing an earlier message.
func (e *ValidationError) Set(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// Err returns e as an error, or nil when no field failed.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
