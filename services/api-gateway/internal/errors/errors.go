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

var ErrInvalidIngestRequest = &HttpError{
	IsUserError: true,
	Description: "repo_url and ref are required",
	StatusCode:  http.StatusBadRequest,
}
