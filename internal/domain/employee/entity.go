package employee

import (
	"sort"
	"strings"
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/schedule"
)

// ResolveMode selects how leave and actual work hours fold into a resolved
// workday. See Employee.ResolveWorkday.
type ResolveMode string

const (
	// ModeGeneral layers assignment, variation, actual work hours and leave.
	ModeGeneral ResolveMode = "general"
	// ModeActual layers assignment and variation, then only timesheet-confirmed
	// leave, gated by the caller's labor-code catalog.
	ModeActual ResolveMode = "actual"
	// ModeNoLeaves resolves the pure schedule, never consulting leave.
	ModeNoLeaves ResolveMode = "noleaves"
)

// Name is the employee's display name.
type Name struct {
	FirstName  string `json:"first"`
	MiddleName string `json:"middle,omitempty"`
	LastName   string `json:"last"`
}

// LastFirst renders "Last, First" for notification text.
func (n *Name) LastFirst() string {
	return n.LastName + ", " + n.FirstName
}

// CompanyInfo carries employer-side identifiers the engine never interprets.
type CompanyInfo struct {
	Company     string `json:"company,omitempty"`
	EmployeeID  string `json:"employeeid,omitempty"`
	AlternateID string `json:"alternateid,omitempty"`
}

// Work is one actual-hours record from the external timesheet source. Mod
// time entries are excluded when actual hours override a scheduled day.
type Work struct {
	DateWorked   time.Time `json:"dateWorked"`
	ChargeNumber string    `json:"chargeNumber"`
	Extension    string    `json:"extension"`
	PayCode      int       `json:"payCode"`
	Hours        float64   `json:"hours"`
	ModTime      bool      `json:"modtime"`
}

// LaborCharge is a dated charge number used by forecast aggregation.
type LaborCharge struct {
	ChargeNumber string    `json:"chargeNumber"`
	Extension    string    `json:"extension"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

// Employee is the aggregate root. Assignments, variations, balances, leaves
// and requests have no existence outside it: every mutation goes through an
// Employee method and the caller persists the whole document afterwards.
type Employee struct {
	ID          string                `json:"id"`
	TeamID      string                `json:"team"`
	SiteID      string                `json:"site"`
	Email       string                `json:"email"`
	Name        Name                  `json:"name"`
	CompanyInfo CompanyInfo           `json:"companyinfo"`
	Assignments []schedule.Assignment `json:"assignments,omitempty"`
	Variations  []schedule.Variation  `json:"variations,omitempty"`
	Balances    []leave.AnnualLeave   `json:"balance,omitempty"`
	Leaves      []leave.Leave         `json:"leaves,omitempty"`
	Requests    []leave.Request       `json:"requests,omitempty"`

	// Work records come from the timesheet collaborator per report period and
	// are never part of the persisted document.
	Work []Work `json:"work,omitempty"`

	// Version backs the compare-and-swap document replace. Managed by the
	// repository, never serialized into the document itself.
	Version int64 `json:"-"`

	PasswordHash string `json:"-"`
}

// TruncateDay drops the time-of-day component, keeping UTC calendar-day
// granularity. All date comparisons in the aggregate go through values
// produced here.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (e *Employee) sortAssignments() {
	sort.Slice(e.Assignments, func(i, j int) bool {
		return e.Assignments[i].StartDate.Before(e.Assignments[j].StartDate)
	})
}

func (e *Employee) sortVariations() {
	sort.Slice(e.Variations, func(i, j int) bool {
		if e.Variations[i].StartDate.Equal(e.Variations[j].StartDate) {
			return e.Variations[i].ID < e.Variations[j].ID
		}
		return e.Variations[i].StartDate.Before(e.Variations[j].StartDate)
	})
}

func (e *Employee) sortLeaves() {
	sort.Slice(e.Leaves, func(i, j int) bool {
		if e.Leaves[i].LeaveDate.Equal(e.Leaves[j].LeaveDate) {
			return e.Leaves[i].ID < e.Leaves[j].ID
		}
		return e.Leaves[i].LeaveDate.Before(e.Leaves[j].LeaveDate)
	})
}

func (e *Employee) sortRequests() {
	sort.Slice(e.Requests, func(i, j int) bool {
		return e.Requests[i].StartDate.Before(e.Requests[j].StartDate)
	})
}

func (e *Employee) sortBalances() {
	sort.Slice(e.Balances, func(i, j int) bool {
		return e.Balances[i].Year < e.Balances[j].Year
	})
}

func (e *Employee) sortWork() {
	sort.Slice(e.Work, func(i, j int) bool {
		return e.Work[i].DateWorked.Before(e.Work[j].DateWorked)
	})
}

// IsActive reports whether any assignment covers date at the employee's
// current site.
func (e *Employee) IsActive(date time.Time) bool {
	date = TruncateDay(date)
	for i := range e.Assignments {
		if e.Assignments[i].Use(e.SiteID, date) {
			return true
		}
	}
	return false
}

// AtSite reports whether the employee is assigned to site for any part of
// the window.
func (e *Employee) AtSite(site string, start, end time.Time) bool {
	for i := range e.Assignments {
		a := &e.Assignments[i]
		if strings.EqualFold(a.Site, site) &&
			a.StartDate.Before(end) && a.EndDate.After(start) {
			return true
		}
	}
	return false
}

// GetStandardWorkday returns the standard day length for date, taken from
// the assignment covering it. 8.0 when no assignment covers the date: that
// default is policy, not an error.
func (e *Employee) GetStandardWorkday(date time.Time) float64 {
	date = TruncateDay(date)
	std := 8.0
	e.sortAssignments()
	for i := range e.Assignments {
		if e.Assignments[i].Contains(date) {
			std = e.Assignments[i].GetStandardWorkday()
		}
	}
	return std
}

// scheduledWorkday resolves assignment then variation for date, returning
// the winning workday and the site of the covering assignment.
func (e *Employee) scheduledWorkday(date time.Time) (*schedule.Workday, string) {
	var wkday *schedule.Workday
	site := ""
	e.sortAssignments()
	for i := range e.Assignments {
		if e.Assignments[i].Contains(date) {
			site = e.Assignments[i].Site
			wkday = e.Assignments[i].GetWorkday(date)
		}
	}
	e.sortVariations()
	for i := range e.Variations {
		if e.Variations[i].Contains(date) {
			wkday = e.Variations[i].GetWorkday(site, date)
		}
	}
	return wkday, site
}

// assignmentWorkday resolves the assignment layer only, ignoring variations.
func (e *Employee) assignmentWorkday(date time.Time) *schedule.Workday {
	var wkday *schedule.Workday
	e.sortAssignments()
	for i := range e.Assignments {
		if e.Assignments[i].Contains(date) {
			wkday = e.Assignments[i].GetWorkday(date)
		}
	}
	return wkday
}

// ResolveWorkday answers "what is this person scheduled to do on date" for
// the requested mode. It never fails: a date no assignment covers resolves
// to nil.
func (e *Employee) ResolveWorkday(date time.Time, mode ResolveMode, codes []leave.Code) *schedule.Workday {
	switch mode {
	case ModeActual:
		return e.GetWorkdayActual(date, codes)
	case ModeNoLeaves:
		return e.GetWorkdayWOLeave(date)
	default:
		return e.GetWorkday(date)
	}
}

// GetWorkday is the general read path: assignment, then variation override,
// then actual work hours, then leave.
//
// When actual hours exist for the date but the schedule resolved an empty
// day, the shift crossed midnight: walk backward through the assignment
// schedule until a coded day is found and stamp the actual hours onto it.
// Leave is consulted only when nothing resolved or no hours were worked, and
// a leave row only wins when its hours exceed half the standard workday or
// the row is timesheet-confirmed.
func (e *Employee) GetWorkday(date time.Time) *schedule.Workday {
	date = TruncateDay(date)
	std := e.GetStandardWorkday(date)

	work := 0.0
	for i := range e.Work {
		if sameDay(e.Work[i].DateWorked, date) && !e.Work[i].ModTime {
			work += e.Work[i].Hours
		}
	}

	wkday, _ := e.scheduledWorkday(date)

	if work > 0.0 {
		if wkday == nil || wkday.IsEmpty() {
			prev := date
			for i := 0; i < 31 && (wkday == nil || wkday.IsEmpty()); i++ {
				prev = prev.AddDate(0, 0, -1)
				wkday = e.assignmentWorkday(prev)
			}
		}
		if wkday != nil {
			wkday.Hours = work
		}
	}

	if wkday == nil || work == 0.0 {
		e.sortLeaves()
		for i := range e.Leaves {
			lv := e.Leaves[i]
			if sameDay(lv.LeaveDate, date) && (lv.Hours > std/2 || lv.IsActual()) {
				wkday = &schedule.Workday{
					Workcenter: "",
					Code:       lv.Code,
					Hours:      lv.Hours,
				}
			}
		}
	}
	return wkday
}

// GetWorkdayActual resolves the schedule, then applies only
// timesheet-confirmed leave. When a labor-code catalog is supplied, leave is
// applied only if it is the employee's primary charge for the date: the
// scheduled code is empty or is itself a leave code. Several actual leaves on
// one day accumulate hours, keeping the code of the largest single entry.
func (e *Employee) GetWorkdayActual(date time.Time, codes []leave.Code) *schedule.Workday {
	date = TruncateDay(date)
	wkday, _ := e.scheduledWorkday(date)

	primary := len(codes) == 0
	if !primary {
		if wkday == nil || wkday.IsEmpty() || leave.IsLeaveCode(wkday.Code, codes) {
			primary = true
		}
	}
	if !primary {
		return wkday
	}

	e.sortLeaves()
	found := false
	largest := 0.0
	for i := range e.Leaves {
		lv := e.Leaves[i]
		if !sameDay(lv.LeaveDate, date) || !lv.IsActual() {
			continue
		}
		if !found {
			wkday = &schedule.Workday{Code: lv.Code, Hours: lv.Hours}
			largest = lv.Hours
			found = true
			continue
		}
		wkday.Hours += lv.Hours
		if lv.Hours > largest {
			largest = lv.Hours
			wkday.Code = lv.Code
		}
	}
	return wkday
}

// GetWorkdayWOLeave resolves assignment and variation only.
func (e *Employee) GetWorkdayWOLeave(date time.Time) *schedule.Workday {
	wkday, _ := e.scheduledWorkday(TruncateDay(date))
	return wkday
}

// GetLastWorkday returns the date of the latest actual work record, or the
// zero epoch when none exist.
func (e *Employee) GetLastWorkday() time.Time {
	answer := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	e.sortWork()
	if len(e.Work) > 0 {
		answer = TruncateDay(e.Work[len(e.Work)-1].DateWorked)
	}
	return answer
}

// GetAssignment reports the predominant workcenter/code pair over the
// window, resolved day by day without leaves. Used by roster consumers to
// label where someone "mostly" works.
func (e *Employee) GetAssignment(start, end time.Time) (string, string) {
	assigned := make(map[string]int)
	current := TruncateDay(start)
	end = TruncateDay(end)
	for current.Before(end) {
		wd := e.GetWorkdayWOLeave(current)
		if wd != nil && !wd.IsEmpty() {
			assigned[wd.Workcenter+"-"+wd.Code]++
		}
		current = current.AddDate(0, 0, 1)
	}
	max := 0
	answer := ""
	for k, v := range assigned {
		if v > max {
			answer = k
			max = v
		}
	}
	if answer == "" {
		return "", ""
	}
	parts := strings.SplitN(answer, "-", 2)
	return parts[0], parts[1]
}

// PurgeOldData drops variations, leaves, requests and balances that ended
// before the cutoff, and reports whether the employee's final assignment
// also ended before it (meaning the whole record can go).
func (e *Employee) PurgeOldData(date time.Time) bool {
	date = TruncateDay(date)
	e.sortVariations()
	for i := len(e.Variations) - 1; i >= 0; i-- {
		if e.Variations[i].EndDate.Before(date) {
			e.Variations = append(e.Variations[:i], e.Variations[i+1:]...)
		}
	}
	e.sortLeaves()
	for i := len(e.Leaves) - 1; i >= 0; i-- {
		if e.Leaves[i].LeaveDate.Before(date) {
			e.Leaves = append(e.Leaves[:i], e.Leaves[i+1:]...)
		}
	}
	e.sortRequests()
	for i := len(e.Requests) - 1; i >= 0; i-- {
		if e.Requests[i].EndDate.Before(date) {
			e.Requests = append(e.Requests[:i], e.Requests[i+1:]...)
		}
	}
	e.sortBalances()
	for i := len(e.Balances) - 1; i >= 0; i-- {
		if e.Balances[i].Year < date.Year() {
			e.Balances = append(e.Balances[:i], e.Balances[i+1:]...)
		}
	}
	if len(e.Assignments) == 0 {
		return false
	}
	e.sortAssignments()
	return e.Assignments[len(e.Assignments)-1].EndDate.Before(date)
}

// HasLaborCode reports whether any assignment bills the pair.
func (e *Employee) HasLaborCode(chargeNumber, extension string) bool {
	for i := range e.Assignments {
		if e.Assignments[i].HasLaborCode(chargeNumber, extension) {
			return true
		}
	}
	return false
}
