package employee

import (
	"strconv"
	"strings"
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
)

// AddLeave upserts a single leave row. A row matching the explicit id, or
// the same date and code, is updated in place; the request linkage is only
// filled when previously empty so the first writer keeps the back-reference.
// Otherwise a new row is appended with the next free id.
func (e *Employee) AddLeave(id int, date time.Time, code string, status leave.Status,
	hours float64, requestID, tag string) *leave.Leave {
	date = TruncateDay(date)
	found := -1
	max := 0
	for i := range e.Leaves {
		lv := e.Leaves[i]
		if (sameDay(lv.LeaveDate, date) && strings.EqualFold(lv.Code, code)) ||
			(id > 0 && lv.ID == id) {
			found = i
			lv.Status = status
			lv.Hours = hours
			lv.TagDay = tag
			if lv.RequestID == "" {
				lv.RequestID = requestID
			}
			e.Leaves[i] = lv
		} else if lv.ID > max {
			max = lv.ID
		}
	}
	if found >= 0 {
		return &e.Leaves[found]
	}
	lv := leave.Leave{
		ID:        max + 1,
		LeaveDate: date,
		Code:      code,
		Hours:     hours,
		Status:    status,
		RequestID: requestID,
		TagDay:    tag,
	}
	e.Leaves = append(e.Leaves, lv)
	e.sortLeaves()
	for i := range e.Leaves {
		if e.Leaves[i].ID == lv.ID {
			return &e.Leaves[i]
		}
	}
	return nil
}

// UpdateLeave patches one field of the leave row with the given id and
// returns the row's previous value.
func (e *Employee) UpdateLeave(id int, field, value string) (*leave.Leave, error) {
	for i := range e.Leaves {
		lv := e.Leaves[i]
		if lv.ID != id {
			continue
		}
		old := lv
		switch strings.ToLower(field) {
		case "date", "leavedate":
			date, err := time.Parse("2006-01-02", value)
			if err != nil {
				return nil, err
			}
			lv.LeaveDate = TruncateDay(date)
		case "code":
			lv.Code = value
		case "hours":
			hrs, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, err
			}
			lv.Hours = hrs
		case "status":
			lv.Status = leave.Status(strings.ToUpper(value))
		case "requestid":
			lv.RequestID = value
		case "tagday", "tag":
			lv.TagDay = value
		default:
			return nil, leave.ErrInvalidField
		}
		e.Leaves[i] = lv
		return &old, nil
	}
	return nil, leave.ErrLeaveNotFound
}

// DeleteLeave removes the leave row with the given id and returns it.
func (e *Employee) DeleteLeave(id int) (*leave.Leave, error) {
	pos := -1
	var old leave.Leave
	for i := range e.Leaves {
		if e.Leaves[i].ID == id {
			old = e.Leaves[i]
			pos = i
		}
	}
	if pos < 0 {
		return nil, leave.ErrLeaveNotFound
	}
	e.Leaves = append(e.Leaves[:pos], e.Leaves[pos+1:]...)
	return &old, nil
}

// RemoveLeaves deletes every leave row inside the inclusive window.
func (e *Employee) RemoveLeaves(start, end time.Time) {
	start = TruncateDay(start)
	end = TruncateDay(end)
	e.sortLeaves()
	for i := len(e.Leaves) - 1; i >= 0; i-- {
		d := e.Leaves[i].LeaveDate
		if !d.Before(start) && !d.After(end) {
			e.Leaves = append(e.Leaves[:i], e.Leaves[i+1:]...)
		}
	}
}

// CreateLeaveBalance seeds the balance for year. A balance already on record
// for that year makes this a no-op. The first year on record seeds the
// 100-hour policy default; later years carry forward the prior annual grant
// and compute carryover as what was left after the prior year's grant funded
// the vacation hours actually taken this year.
func (e *Employee) CreateLeaveBalance(year int) {
	lastAnnual := 0.0
	lastCarry := 0.0
	hasPrior := false
	for i := range e.Balances {
		if e.Balances[i].Year == year {
			return
		}
		if e.Balances[i].Year == year-1 {
			hasPrior = true
			lastAnnual = e.Balances[i].Annual
			lastCarry = e.Balances[i].Carryover
		}
	}
	al := leave.AnnualLeave{Year: year, Annual: lastAnnual, Carryover: 0.0}
	if !hasPrior {
		al.Annual = 100.0
	} else {
		carry := lastAnnual + lastCarry
		for i := range e.Leaves {
			lv := e.Leaves[i]
			if lv.LeaveDate.Year() == year && strings.EqualFold(lv.Code, "V") &&
				lv.IsActual() {
				carry -= lv.Hours
			}
		}
		al.Carryover = carry
	}
	e.Balances = append(e.Balances, al)
	e.sortBalances()
}

// UpdateAnnualLeave sets the grant and carryover for year, creating the
// balance row if necessary.
func (e *Employee) UpdateAnnualLeave(year int, annual, carry float64) {
	for i := range e.Balances {
		if e.Balances[i].Year == year {
			e.Balances[i].Annual = annual
			e.Balances[i].Carryover = carry
			return
		}
	}
	e.Balances = append(e.Balances, leave.AnnualLeave{
		Year:      year,
		Annual:    annual,
		Carryover: carry,
	})
	e.sortBalances()
}

// GetLeaveBalance returns the balance row for year, if any.
func (e *Employee) GetLeaveBalance(year int) *leave.AnnualLeave {
	for i := range e.Balances {
		if e.Balances[i].Year == year {
			return &e.Balances[i]
		}
	}
	return nil
}

// GetWorkedHours sums actual work hours over the inclusive window.
func (e *Employee) GetWorkedHours(start, end time.Time) float64 {
	start = TruncateDay(start)
	end = TruncateDay(end)
	answer := 0.0
	for i := range e.Work {
		d := TruncateDay(e.Work[i].DateWorked)
		if !d.Before(start) && !d.After(end) {
			answer += e.Work[i].Hours
		}
	}
	return answer
}

// GetWorkedHoursForLabor sums actual work hours over the inclusive window
// for one charge number / extension pair.
func (e *Employee) GetWorkedHoursForLabor(chargeNumber, extension string, start, end time.Time) float64 {
	start = TruncateDay(start)
	end = TruncateDay(end)
	answer := 0.0
	for i := range e.Work {
		wk := e.Work[i]
		d := TruncateDay(wk.DateWorked)
		if !d.Before(start) && !d.After(end) &&
			strings.EqualFold(chargeNumber, wk.ChargeNumber) &&
			strings.EqualFold(extension, wk.Extension) {
			answer += wk.Hours
		}
	}
	return answer
}

// GetLeaveHours sums timesheet-confirmed leave hours over the inclusive
// window.
func (e *Employee) GetLeaveHours(start, end time.Time) float64 {
	start = TruncateDay(start)
	end = TruncateDay(end)
	answer := 0.0
	e.sortLeaves()
	for i := range e.Leaves {
		lv := e.Leaves[i]
		if !lv.LeaveDate.Before(start) && !lv.LeaveDate.After(end) && lv.IsActual() {
			answer += lv.Hours
		}
	}
	return answer
}

// GetPTOHours sums timesheet-confirmed vacation hours over the inclusive
// window.
func (e *Employee) GetPTOHours(start, end time.Time) float64 {
	start = TruncateDay(start)
	end = TruncateDay(end)
	answer := 0.0
	e.sortLeaves()
	for i := range e.Leaves {
		lv := e.Leaves[i]
		if !lv.LeaveDate.Before(start) && !lv.LeaveDate.After(end) &&
			lv.IsActual() && strings.EqualFold(lv.Code, "V") {
			answer += lv.Hours
		}
	}
	return answer
}

// GetForecastHours projects standard-day hours for one labor charge over the
// window: only dates after the last recorded work date count, only dates the
// charge is active, and only days whose resolved code is a non-leave work
// code per the supplied catalog.
func (e *Employee) GetForecastHours(lc LaborCharge, start, end time.Time, codes []leave.Code) float64 {
	if !e.HasLaborCode(lc.ChargeNumber, lc.Extension) {
		return 0.0
	}
	if lc.EndDate.Before(start) || lc.StartDate.After(end) {
		return 0.0
	}
	lastWork := e.GetLastWorkday()
	answer := 0.0
	current := TruncateDay(start)
	end = TruncateDay(end)
	for current.Before(end) {
		if current.After(lastWork) && e.GetWorkedHours(current, current) == 0.0 {
			if !current.Before(TruncateDay(lc.StartDate)) && !current.After(TruncateDay(lc.EndDate)) {
				wd := e.GetWorkday(current)
				if wd != nil && !wd.IsEmpty() && !leave.IsLeaveCode(wd.Code, codes) {
					for i := range e.Assignments {
						a := &e.Assignments[i]
						if a.Contains(current) && a.HasLaborCode(lc.ChargeNumber, lc.Extension) {
							answer += e.GetStandardWorkday(current)
						}
					}
				}
			}
		}
		current = current.AddDate(0, 0, 1)
	}
	return answer
}
