package response

import (
	"errors"
	"net/http"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/validator"
	"github.com/shiftwatch/scheduler-backend-go/internal/service/auth"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Employee document errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrVersionConflict):
		Conflict(w, "Employee record was modified by another request, retry")
	case errors.Is(err, employee.ErrLastAssignment):
		BadRequest(w, "Cannot remove the only assignment", nil)

	// Schedule errors
	case errors.Is(err, schedule.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, schedule.ErrVariationNotFound):
		NotFound(w, "Variation not found")
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrWorkdayNotFound):
		NotFound(w, "Workday not found")
	case errors.Is(err, schedule.ErrInvalidScheduleLength):
		BadRequest(w, "Schedule length must be a positive multiple of 7", nil)

	// Leave ledger and workflow errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave not found")
	case errors.Is(err, leave.ErrInvalidField):
		BadRequest(w, "Unknown update field", nil)
	case errors.Is(err, leave.ErrInvalidDates):
		BadRequest(w, "Invalid date range", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
