package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/lanshare/internal/common"
)

// StatusFor maps a sharing error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is what a visitor sees for err. Storage failures are not
// echoed back; the details go to the log instead.
func userMessage(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "storage error, please try again"
	}
	return err.Error()
}
