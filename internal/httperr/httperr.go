package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
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

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

var messages = map[string]string{
	"workshop_not_found":      "Workshop not found.",
	"appointment_not_found":   "Appointment not found.",
	"invalid_time_range":      "start_time must be before end_time.",
	"invalid_opening_hours":   "Opening hours are malformed.",
	"invalid_timezone":        "Unknown timezone.",
	"slot_not_available":      "Slot no longer available, please choose another.",
	"invalid_state":           "Appointment cannot change to the requested state.",
	"invalid_state_filter":    "Unknown appointment state.",
	"invalid_date":            "Date must be YYYY-MM-DD.",
	"missing_required_fields": "Required fields are missing.",
	"invalid_pagination":      "page must be >= 1 and limit between 1 and 200.",
	"invalid_order":           "order must be created, start_asc or start_desc.",
	"invalid_id":              "Identifier must be a UUID.",
	"invalid_body":            "Request body is malformed.",
	"unknown_state":           "Appointment has an unknown state.",
}

// Respond writes err using the status implied by its business kind.
// Errors without a kind are reported as 500 without leaking details.
func Respond(c *gin.Context, err error) {
	code := "internal_error"
	status := http.StatusInternalServerError

	var be BusinessError
	if errors.As(err, &be) {
		code = be.Code
		switch be.Kind {
		case KindNotFound:
			status = http.StatusNotFound
		case KindValidation:
			status = http.StatusUnprocessableEntity
		case KindConflict, KindInvalidState:
			status = http.StatusConflict
		}
	}

	msg, ok := messages[code]
	if !ok {
		if status == http.StatusInternalServerError {
			msg = "Unexpected error."
		} else {
			msg = code
		}
	}

	Write(c, status, code, msg)
}
