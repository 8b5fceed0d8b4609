package schedule

import "errors"

var (
	ErrInvalidScheduleLength = errors.New("schedule length must be a positive multiple of seven")
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrWorkdayNotFound       = errors.New("workday not found")
	ErrVariationNotFound     = errors.New("variation not found")
	ErrAssignmentNotFound    = errors.New("assignment not found")
)
