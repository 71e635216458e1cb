package errors

import "net/http"

type HttpError struct {
	IsUserError bool
	Description string
	StatusCode  int
}

func (e *HttpError) Error() string {
	return e.Description
}

var (
	ErrEmptyQuery = &HttpError{
		IsUserError: true,
		Description: "query must not be empty",
		StatusCode:  http.StatusBadRequest,
	}
	ErrMissingTarget = &HttpError{
		IsUserError: true,
		Description: "target id or qualified name is required",
		StatusCode:  http.StatusBadRequest,
	}
	ErrTargetNotFound = &HttpError{
		IsUserError: true,
		Description: "target snippet not found",
		StatusCode:  http.StatusNotFound,
	}
	ErrNoSnapshot = &HttpError{
		IsUserError: false,
		Description: "no snapshot has been ingested yet",
		StatusCode:  http.StatusServiceUnavailable,
	}
)
