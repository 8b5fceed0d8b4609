package employee

import (
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/schedule"
)

// AddAssignment closes the current open-ended assignment the day before
// start and appends a new open-ended assignment with a default Monday-Friday
// eight-hour day-shift schedule. Assignments stay contiguous and gap-free.
func (e *Employee) AddAssignment(site, workcenter string, start time.Time) *schedule.Assignment {
	start = TruncateDay(start)
	max := uint(0)
	for i := range e.Assignments {
		if e.Assignments[i].ID > max {
			max = e.Assignments[i].ID
		}
	}

	e.sortAssignments()
	if len(e.Assignments) > 0 {
		last := e.Assignments[len(e.Assignments)-1]
		last.EndDate = start.AddDate(0, 0, -1)
		e.Assignments[len(e.Assignments)-1] = last
	}

	asgmt := schedule.Assignment{
		ID:           max + 1,
		Site:         site,
		Workcenter:   workcenter,
		StartDate:    start,
		EndDate:      schedule.MaxDate,
		RotationDate: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		RotationDays: 0,
	}
	_ = asgmt.AddSchedule(schedule.DaysInWeek)
	for i, wd := range asgmt.Schedules[0].Workdays {
		// index 0 is Sunday, 6 is Saturday
		if i != 0 && i != 6 {
			wd.Code = "D"
			wd.Workcenter = workcenter
			wd.Hours = 8.0
			asgmt.Schedules[0].Workdays[i] = wd
		}
	}

	e.Assignments = append(e.Assignments, asgmt)
	e.sortAssignments()
	return &e.Assignments[len(e.Assignments)-1]
}

// GetAssignmentByID returns the assignment with the given id.
func (e *Employee) GetAssignmentByID(id uint) (*schedule.Assignment, error) {
	for i := range e.Assignments {
		if e.Assignments[i].ID == id {
			return &e.Assignments[i], nil
		}
	}
	return nil, schedule.ErrAssignmentNotFound
}

// RemoveAssignment deletes an assignment while keeping the list contiguous:
// removing the first pulls the next assignment's start back to the removed
// start, removing the last re-opens the new last assignment's end date, and
// removing a middle one extends the predecessor to the day before its
// successor. The only remaining assignment can never be removed.
func (e *Employee) RemoveAssignment(id uint) error {
	if len(e.Assignments) <= 1 {
		return ErrLastAssignment
	}
	e.sortAssignments()
	pos := -1
	for i := range e.Assignments {
		if e.Assignments[i].ID == id {
			pos = i
		}
	}
	if pos < 0 {
		return schedule.ErrAssignmentNotFound
	}

	removed := e.Assignments[pos]
	switch {
	case pos == 0:
		next := e.Assignments[1]
		next.StartDate = removed.StartDate
		e.Assignments[1] = next
	case pos == len(e.Assignments)-1:
		prev := e.Assignments[pos-1]
		prev.EndDate = schedule.MaxDate
		e.Assignments[pos-1] = prev
	default:
		prev := e.Assignments[pos-1]
		prev.EndDate = e.Assignments[pos+1].StartDate.AddDate(0, 0, -1)
		e.Assignments[pos-1] = prev
	}
	e.Assignments = append(e.Assignments[:pos], e.Assignments[pos+1:]...)
	return nil
}

// AddVariation appends a variation with the next free id and returns it.
func (e *Employee) AddVariation(vari schedule.Variation) *schedule.Variation {
	max := uint(0)
	for i := range e.Variations {
		if e.Variations[i].ID > max {
			max = e.Variations[i].ID
		}
	}
	vari.ID = max + 1
	vari.StartDate = TruncateDay(vari.StartDate)
	vari.EndDate = TruncateDay(vari.EndDate)
	e.Variations = append(e.Variations, vari)
	e.sortVariations()
	for i := range e.Variations {
		if e.Variations[i].ID == vari.ID {
			return &e.Variations[i]
		}
	}
	return nil
}

// GetVariationByID returns the variation with the given id.
func (e *Employee) GetVariationByID(id uint) (*schedule.Variation, error) {
	for i := range e.Variations {
		if e.Variations[i].ID == id {
			return &e.Variations[i], nil
		}
	}
	return nil, schedule.ErrVariationNotFound
}

// DeleteVariation removes the variation with the given id.
func (e *Employee) DeleteVariation(id uint) error {
	pos := -1
	for i := range e.Variations {
		if e.Variations[i].ID == id {
			pos = i
		}
	}
	if pos < 0 {
		return schedule.ErrVariationNotFound
	}
	e.Variations = append(e.Variations[:pos], e.Variations[pos+1:]...)
	return nil
}
