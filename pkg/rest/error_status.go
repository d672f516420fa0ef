package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerryalvrz/psychat-solana/pkg/reasoncodes"
)

// StatusForError maps a reason code to its HTTP status. Errors without a
// code are treated as internal.
func StatusForError(err error) int {
	switch reasoncodes.CodeOf(err) {
	case reasoncodes.ErrInvalidInput:
		return http.StatusBadRequest
	case reasoncodes.ErrIdentityRequired:
		return http.StatusPreconditionFailed
	case reasoncodes.ErrAlreadyExists, reasoncodes.ErrActionInFlight:
		return http.StatusConflict
	case reasoncodes.ErrAlreadyProcessed:
		return http.StatusAccepted
	case reasoncodes.ErrConfirmationTimeout:
		return http.StatusGatewayTimeout
	case reasoncodes.ErrLookupFailed, reasoncodes.ErrSubmitFailed:
		return http.StatusBadGateway
	case reasoncodes.ErrSignerUnavailable:
		return http.StatusServiceUnavailable
	case reasoncodes.ErrSimulationRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error with its reason code attached. Extra fields
// from body are merged into the response.
func RespondError(c *gin.Context, err error, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["error"] = err.Error()
	if code := reasoncodes.CodeOf(err); code != "" {
		body["reason"] = string(code)
	}
	c.JSON(StatusForError(err), body)
}
