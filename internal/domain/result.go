package domain

import "errors"

// Result is the uniform outcome of a backend call. On success Data holds the
// parsed JSON body; on failure Error holds a user-facing message and Err the typed cause.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// Succeed returns a successful Result carrying data.
func Succeed(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail returns a failed Result for err.
func Fail(err error) Result {
	return Result{Success: false, Error: err.Error(), Err: err}
}

// Unwrap converts the Result back into a value/error pair.
func (r Result) Unwrap() (any, error) {
	if r.Success {
		return r.Data, nil
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return nil, errors.New(r.Error)
}
