package leave

import "errors"

var (
	ErrRequestNotFound = errors.New("leave request not found")
	ErrLeaveNotFound   = errors.New("leave not found")
	ErrInvalidField    = errors.New("unknown leave request field")
	ErrInvalidDates    = errors.New("end date must not precede start date")
)
