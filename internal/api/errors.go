package api

import "net/http"

// ErrorBody is the `{ "error": message }` envelope returned by the style
// generation endpoint. It satisfies huma.StatusError so Huma writes it as
// the response body with its status.
type ErrorBody struct {
	Status  int    `json:"-"`
	Message string `json:"error" doc:"Error message"`
}

func (e *ErrorBody) Error() string  { return e.Message }
func (e *ErrorBody) GetStatus() int { return e.Status }

func internalError(err error) *ErrorBody {
	return &ErrorBody{Status: http.StatusInternalServerError, Message: err.Error()}
}
