package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/juriscal/consult-scheduler/internal/schederr"
)

type HTTPError struct {
	Code     string `json:"error_code"`
	Message  string `json:"message"`
	Conflict any    `json:"conflict,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// FromError maps the scheduling error taxonomy onto HTTP statuses.
// Overlap responses include the conflicting block for caller display.
func FromError(c *gin.Context, err error) {
	var oe *schederr.OverlapError
	if errors.As(err, &oe) {
		c.JSON(http.StatusConflict, HTTPError{
			Code:     schederr.CodeOverlap,
			Message:  oe.Error(),
			Conflict: oe.Conflict,
		})
		return
	}

	switch schederr.CodeOf(err) {
	case schederr.CodeValidation:
		BadRequest(c, schederr.CodeValidation, err.Error())
	case schederr.CodeNotFound:
		NotFound(c, schederr.CodeNotFound, err.Error())
	case schederr.CodeSlotAlreadyBooked:
		Conflict(c, schederr.CodeSlotAlreadyBooked, "This time was just taken. Please refresh and pick another slot.")
	case schederr.CodeActiveBooking:
		Conflict(c, schederr.CodeActiveBooking, err.Error())
	case schederr.CodeReschedule:
		Conflict(c, schederr.CodeReschedule, err.Error())
	case schederr.CodeInvalidState:
		BadRequest(c, schederr.CodeInvalidState, err.Error())
	default:
		Internal(c, "internal_error", "Unexpected error.")
	}
}
