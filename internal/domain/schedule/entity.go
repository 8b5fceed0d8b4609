package schedule

import (
	"sort"
	"strings"
	"time"
)

// MaxDate is the open-ended assignment end date. An employee always has
// exactly one assignment ending on this date.
var MaxDate = time.Date(9999, 12, 30, 0, 0, 0, 0, time.UTC)

// DaysInWeek is the granularity every schedule length must divide into.
const DaysInWeek = 7

// Workday is one day's scheduled work: where, what code, how many hours.
type Workday struct {
	ID         uint    `json:"id"`
	Workcenter string  `json:"workcenter"`
	Code       string  `json:"code"`
	Hours      float64 `json:"hours"`
}

// IsEmpty reports whether the day carries no scheduled work.
func (w *Workday) IsEmpty() bool {
	return w.Code == ""
}

// Schedule is a fixed-length cyclic sequence of workdays. The length is
// always a positive multiple of seven.
type Schedule struct {
	ID       int       `json:"id"`
	Workdays []Workday `json:"workdays"`
}

// NewSchedule builds a schedule of days empty workdays. days must be a
// positive multiple of seven.
func NewSchedule(id, days int) (Schedule, error) {
	if days <= 0 || days%DaysInWeek != 0 {
		return Schedule{}, ErrInvalidScheduleLength
	}
	sch := Schedule{ID: id}
	for i := 0; i < days; i++ {
		sch.Workdays = append(sch.Workdays, Workday{ID: uint(i)})
	}
	return sch, nil
}

// GetWorkday returns a copy of the workday at the given cycle offset.
func (s *Schedule) GetWorkday(offset int) *Workday {
	if len(s.Workdays) == 0 {
		return nil
	}
	sort.Slice(s.Workdays, func(i, j int) bool {
		return s.Workdays[i].ID < s.Workdays[j].ID
	})
	wd := s.Workdays[offset%len(s.Workdays)]
	return &wd
}

// SetWorkday replaces the workcenter/code/hours of the workday with the
// given id.
func (s *Schedule) SetWorkday(id uint, workcenter, code string, hours float64) error {
	for i, wd := range s.Workdays {
		if wd.ID == id {
			wd.Workcenter = workcenter
			wd.Code = code
			wd.Hours = hours
			s.Workdays[i] = wd
			return nil
		}
	}
	return ErrWorkdayNotFound
}

// ChangeDays resizes the cycle to days workdays, keeping the existing days
// that still fit. days must be a positive multiple of seven.
func (s *Schedule) ChangeDays(days int) error {
	if days <= 0 || days%DaysInWeek != 0 {
		return ErrInvalidScheduleLength
	}
	sort.Slice(s.Workdays, func(i, j int) bool {
		return s.Workdays[i].ID < s.Workdays[j].ID
	})
	if days < len(s.Workdays) {
		s.Workdays = s.Workdays[:days]
		return nil
	}
	for i := len(s.Workdays); i < days; i++ {
		s.Workdays = append(s.Workdays, Workday{ID: uint(i)})
	}
	return nil
}

// LaborCode is a charge number / extension pair an assignment may bill
// against.
type LaborCode struct {
	ChargeNumber string `json:"chargeNumber"`
	Extension    string `json:"extension"`
}

// Assignment binds an employee to a site and workcenter for a date range and
// carries the rotating schedules used to resolve any date inside the range.
type Assignment struct {
	ID           uint        `json:"id"`
	Site         string      `json:"site"`
	Workcenter   string      `json:"workcenter"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	Schedules    []Schedule  `json:"schedules"`
	RotationDate time.Time   `json:"rotationdate"`
	RotationDays int         `json:"rotationdays"`
	LaborCodes   []LaborCode `json:"laborCodes,omitempty"`
}

// Contains reports whether date falls inside the assignment's window,
// inclusive on both ends.
func (a *Assignment) Contains(date time.Time) bool {
	return (a.StartDate.Before(date) || a.StartDate.Equal(date)) &&
		(a.EndDate.After(date) || a.EndDate.Equal(date))
}

// Use reports whether the assignment applies at the given site on date.
func (a *Assignment) Use(site string, date time.Time) bool {
	return strings.EqualFold(a.Site, site) && a.Contains(date)
}

// GetStandardWorkday derives the standard day length from the first
// schedule's cycle: 40 hours per week of cycle, spread over the days that
// carry a work code. A cycle with no coded days yields the 8-hour default.
func (a *Assignment) GetStandardWorkday() float64 {
	if len(a.Schedules) == 0 {
		return 8.0
	}
	sch := a.Schedules[0]
	count := 0
	for _, wd := range sch.Workdays {
		if wd.Code != "" {
			count++
		}
	}
	if count == 0 {
		return 8.0
	}
	weeks := float64(len(sch.Workdays) / DaysInWeek)
	return (40.0 * weeks) / float64(count)
}

// Epoch returns the Sunday on or before start. Rotation offsets are always
// counted from a Sunday so that week boundaries line up with the cycle.
func Epoch(start time.Time) time.Time {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// GetWorkday resolves the scheduled workday for date. With a single schedule
// the cycle simply repeats from the epoch Sunday; with several schedules and
// a positive rotation-day count the active schedule advances every
// RotationDays days.
func (a *Assignment) GetWorkday(date time.Time) *Workday {
	if len(a.Schedules) == 0 {
		return nil
	}
	sort.Slice(a.Schedules, func(i, j int) bool {
		return a.Schedules[i].ID < a.Schedules[j].ID
	})
	start := Epoch(a.StartDate)
	days := int(date.Sub(start).Hours() / 24)
	if days < 0 {
		return nil
	}
	if len(a.Schedules) == 1 || a.RotationDays <= 0 {
		return a.Schedules[0].GetWorkday(days)
	}
	schID := (days / a.RotationDays) % len(a.Schedules)
	return a.Schedules[schID].GetWorkday(days)
}

// AddSchedule appends a new empty schedule of days workdays.
func (a *Assignment) AddSchedule(days int) error {
	next := 0
	for _, sch := range a.Schedules {
		if sch.ID >= next {
			next = sch.ID + 1
		}
	}
	sch, err := NewSchedule(next, days)
	if err != nil {
		return err
	}
	a.Schedules = append(a.Schedules, sch)
	return nil
}

// ChangeScheduleDays resizes the cycle of the schedule with the given id.
func (a *Assignment) ChangeScheduleDays(id, days int) error {
	for i := range a.Schedules {
		if a.Schedules[i].ID == id {
			return a.Schedules[i].ChangeDays(days)
		}
	}
	return ErrScheduleNotFound
}

// RemoveSchedule deletes the schedule with the given id. An assignment never
// has zero schedules: removing the last remaining one leaves a single empty
// seven-day schedule behind.
func (a *Assignment) RemoveSchedule(id int) error {
	pos := -1
	for i, sch := range a.Schedules {
		if sch.ID == id {
			pos = i
		}
	}
	if pos < 0 {
		return ErrScheduleNotFound
	}
	a.Schedules = append(a.Schedules[:pos], a.Schedules[pos+1:]...)
	if len(a.Schedules) == 0 {
		sch, _ := NewSchedule(0, DaysInWeek)
		a.Schedules = append(a.Schedules, sch)
	}
	return nil
}

// SetWorkday updates one workday of one schedule.
func (a *Assignment) SetWorkday(scheduleID int, workdayID uint, workcenter, code string, hours float64) error {
	for i := range a.Schedules {
		if a.Schedules[i].ID == scheduleID {
			return a.Schedules[i].SetWorkday(workdayID, workcenter, code, hours)
		}
	}
	return ErrScheduleNotFound
}

// AddLaborCode records a charge number / extension pair on the assignment.
// Adding an existing pair is a no-op.
func (a *Assignment) AddLaborCode(chargeNumber, extension string) {
	if a.HasLaborCode(chargeNumber, extension) {
		return
	}
	a.LaborCodes = append(a.LaborCodes, LaborCode{
		ChargeNumber: chargeNumber,
		Extension:    extension,
	})
}

// RemoveLaborCode deletes a charge number / extension pair.
func (a *Assignment) RemoveLaborCode(chargeNumber, extension string) {
	pos := -1
	for i, lc := range a.LaborCodes {
		if strings.EqualFold(lc.ChargeNumber, chargeNumber) &&
			strings.EqualFold(lc.Extension, extension) {
			pos = i
		}
	}
	if pos >= 0 {
		a.LaborCodes = append(a.LaborCodes[:pos], a.LaborCodes[pos+1:]...)
	}
}

// HasLaborCode reports whether the assignment bills the given pair.
func (a *Assignment) HasLaborCode(chargeNumber, extension string) bool {
	for _, lc := range a.LaborCodes {
		if strings.EqualFold(lc.ChargeNumber, chargeNumber) &&
			strings.EqualFold(lc.Extension, extension) {
			return true
		}
	}
	return false
}

// Variation is a temporary override schedule for a bounded window. While its
// window contains a date the variation's schedule supersedes whatever the
// underlying assignment would have resolved. Mod-time approvals are stored
// as variations with IsMod set.
type Variation struct {
	ID        uint      `json:"id"`
	Site      string    `json:"site"`
	IsMod     bool      `json:"ismod"`
	StartDate time.Time `json:"startdate"`
	EndDate   time.Time `json:"enddate"`
	Schedule  Schedule  `json:"schedule"`
}

// Contains reports whether date falls inside the variation's window,
// inclusive on both ends.
func (v *Variation) Contains(date time.Time) bool {
	return (v.StartDate.Before(date) || v.StartDate.Equal(date)) &&
		(v.EndDate.After(date) || v.EndDate.Equal(date))
}

// GetWorkday resolves the variation's workday for date, indexing the
// schedule from the Sunday on or before the variation's start. A resolved
// day with no workcenter inherits site so callers always see where the work
// happens.
func (v *Variation) GetWorkday(site string, date time.Time) *Workday {
	start := Epoch(v.StartDate)
	days := int(date.Sub(start).Hours() / 24)
	if days < 0 {
		return nil
	}
	wd := v.Schedule.GetWorkday(days)
	if wd != nil && wd.Workcenter == "" {
		wd.Workcenter = site
	}
	return wd
}

// SetScheduleDays resizes the variation's schedule cycle.
func (v *Variation) SetScheduleDays(days int) error {
	return v.Schedule.ChangeDays(days)
}
