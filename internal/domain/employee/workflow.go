package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/schedule"
)

// NewLeaveRequest opens a leave request in DRAFT over the inclusive window
// with a freshly generated day plan. Creating a request for a window already
// requested returns the existing request, appending the comment, so repeated
// submissions never duplicate.
func (e *Employee) NewLeaveRequest(code string, start, end time.Time, comment string) (*leave.Request, error) {
	start = TruncateDay(start)
	end = TruncateDay(end)
	if end.Before(start) {
		return nil, leave.ErrInvalidDates
	}

	for i := range e.Requests {
		req := &e.Requests[i]
		if req.StartDate.Equal(start) && req.EndDate.Equal(end) {
			req.AddComment(comment)
			return req, nil
		}
	}

	req := leave.Request{
		ID:          uuid.NewString(),
		EmployeeID:  e.ID,
		RequestDate: time.Now().UTC(),
		PrimaryCode: code,
		StartDate:   start,
		EndDate:     end,
		Status:      leave.StatusDraft,
	}
	e.SetLeaveDays(&req, true)
	req.AddComment(fmt.Sprintf("Leave request created for %s - %s, code %s.",
		start.Format("02 Jan 06"), end.Format("02 Jan 06"), code))
	req.AddComment(comment)

	e.Requests = append(e.Requests, req)
	e.sortRequests()
	for i := range e.Requests {
		if e.Requests[i].ID == req.ID {
			return &e.Requests[i], nil
		}
	}
	return nil, leave.ErrRequestNotFound
}

// SetLeaveDays regenerates the request's day plan, one entry per UTC day of
// the inclusive window. Days the schedule resolves empty stay blank; mod
// requests carry the resolved code and hours so supervisors can adjust hours
// without changing the pattern; ordinary requests carry the primary code at
// the standard workday length (8.0 for the holiday code). With reset false,
// prior day-level edits for matching dates survive the regeneration.
func (e *Employee) SetLeaveDays(req *leave.Request, reset bool) {
	prior := make(map[string]leave.Leave)
	if !reset {
		for _, day := range req.RequestedDays {
			prior[day.LeaveDate.Format("2006-01-02")] = day
		}
	}

	req.RequestedDays = nil
	current := TruncateDay(req.StartDate)
	end := TruncateDay(req.EndDate)
	for current.Before(end) || current.Equal(end) {
		day := leave.Leave{
			LeaveDate: current,
			Status:    leave.StatusDraft,
			RequestID: req.ID,
		}
		wd := e.GetWorkday(current)
		if wd != nil && !wd.IsEmpty() {
			if req.IsMod() {
				day.Code = wd.Code
				day.Hours = wd.Hours
			} else {
				day.Code = req.PrimaryCode
				day.Hours = e.GetStandardWorkday(current)
				if strings.EqualFold(req.PrimaryCode, "H") {
					day.Hours = 8.0
				}
			}
		}
		if old, ok := prior[current.Format("2006-01-02")]; ok {
			day.Code = old.Code
			day.Hours = old.Hours
			day.Status = old.Status
			day.TagDay = old.TagDay
		}
		req.RequestedDays = append(req.RequestedDays, day)
		current = current.AddDate(0, 0, 1)
	}
}

// retractOutsideWindow removes materialized leave rows tied to the request
// that fall outside the new inclusive window. A window that no longer
// overlaps the old one retracts everything.
func (e *Employee) retractOutsideWindow(req *leave.Request, start, end time.Time) {
	e.sortLeaves()
	for i := len(e.Leaves) - 1; i >= 0; i-- {
		lv := e.Leaves[i]
		if lv.RequestID != req.ID {
			continue
		}
		if lv.LeaveDate.Before(start) || lv.LeaveDate.After(end) {
			e.Leaves = append(e.Leaves[:i], e.Leaves[i+1:]...)
		}
	}
}

// outsideBounds reports whether date falls outside the request's current
// inclusive window.
func outsideBounds(req *leave.Request, date time.Time) bool {
	return date.Before(req.StartDate) || date.After(req.EndDate)
}

// demoteApproved drops an approved request back to DRAFT, clearing the
// approval, and returns the notification text explaining why.
func (e *Employee) demoteApproved(req *leave.Request, reason string) string {
	req.Status = leave.StatusDraft
	req.ApprovedBy = ""
	req.ApprovalDate = time.Time{}
	return fmt.Sprintf("Leave Request from %s: %s, needs reapproval.",
		e.Name.LastFirst(), reason)
}

// UpdateLeaveRequest applies one field edit to a request, driving the state
// machine. It returns the notification text for the email collaborator (""
// when nothing needs notifying) and the request after the edit. Every
// mutating branch records what changed in the request's comment log, the
// request's only history.
func (e *Employee) UpdateLeaveRequest(requestID, field, value string) (string, *leave.Request, error) {
	idx := -1
	for i := range e.Requests {
		if e.Requests[i].ID == requestID {
			idx = i
		}
	}
	if idx < 0 {
		return "", nil, leave.ErrRequestNotFound
	}
	req := e.Requests[idx]
	message := ""

	switch strings.ToLower(field) {
	case "startdate", "start":
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			return "", nil, err
		}
		date = TruncateDay(date)
		approved := req.Status == leave.StatusApproved
		if approved && outsideBounds(&req, date) {
			message = e.demoteApproved(&req, "starting date changed")
		}
		if approved {
			e.retractOutsideWindow(&req, date, req.EndDate)
		}
		req.StartDate = date
		e.SetLeaveDays(&req, false)
		req.AddComment(fmt.Sprintf("Start date changed to %s.", date.Format("02 Jan 06")))

	case "enddate", "end":
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			return "", nil, err
		}
		date = TruncateDay(date)
		approved := req.Status == leave.StatusApproved
		if approved && outsideBounds(&req, date) {
			message = e.demoteApproved(&req, "ending date changed")
		}
		if approved {
			e.retractOutsideWindow(&req, req.StartDate, date)
		}
		req.EndDate = date
		e.SetLeaveDays(&req, false)
		req.AddComment(fmt.Sprintf("End date changed to %s.", date.Format("02 Jan 06")))

	case "dates":
		parts := strings.Split(value, "|")
		if len(parts) != 2 {
			return "", nil, leave.ErrInvalidDates
		}
		start, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return "", nil, err
		}
		end, err := time.Parse("2006-01-02", parts[1])
		if err != nil {
			return "", nil, err
		}
		start = TruncateDay(start)
		end = TruncateDay(end)
		if end.Before(start) {
			return "", nil, leave.ErrInvalidDates
		}
		approved := req.Status == leave.StatusApproved
		if approved && (outsideBounds(&req, start) || outsideBounds(&req, end)) {
			message = e.demoteApproved(&req, "dates changed")
		}
		if approved {
			e.retractOutsideWindow(&req, start, end)
		}
		req.StartDate = start
		req.EndDate = end
		e.SetLeaveDays(&req, false)
		req.AddComment(fmt.Sprintf("Dates changed to %s - %s.",
			start.Format("02 Jan 06"), end.Format("02 Jan 06")))

	case "code", "primarycode":
		req.PrimaryCode = value
		e.SetLeaveDays(&req, true)
		req.AddComment(fmt.Sprintf("Primary code changed to %s.", value))

	case "requested":
		if req.Status == leave.StatusDraft {
			req.Status = leave.StatusRequested
			for d, day := range req.RequestedDays {
				if day.Code != "" {
					day.Status = leave.StatusRequested
					req.RequestedDays[d] = day
				}
			}
			message = fmt.Sprintf("Leave Request from %s submitted for approval. "+
				"Requested leave dates: %s - %s.", e.Name.LastFirst(),
				req.StartDate.Format("02 Jan 06"), req.EndDate.Format("02 Jan 06"))
			req.AddComment("Submitted for approval.")
		}

	case "unapprove":
		req.Status = leave.StatusDraft
		req.ApprovedBy = ""
		req.ApprovalDate = time.Time{}
		for d, day := range req.RequestedDays {
			if day.Code != "" {
				day.Status = leave.StatusRequested
				req.RequestedDays[d] = day
			}
		}
		req.AddComment("Approval withdrawn. " + value)
		message = fmt.Sprintf("Leave Request from %s unapproved.\nComment: %s",
			e.Name.LastFirst(), value)

	case "day", "requestday":
		parts := strings.Split(value, "|")
		if len(parts) != 3 {
			return "", nil, leave.ErrInvalidField
		}
		date, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return "", nil, err
		}
		date = TruncateDay(date)
		code := parts[1]
		hours, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return "", nil, err
		}
		if code == "" {
			hours = 0.0
		}
		found := false
		for d, day := range req.RequestedDays {
			if sameDay(day.LeaveDate, date) {
				found = true
				day.Code = code
				day.Hours = hours
				req.RequestedDays[d] = day
			}
		}
		if !found {
			req.RequestedDays = append(req.RequestedDays, leave.Leave{
				LeaveDate: date,
				Code:      code,
				Hours:     hours,
				Status:    req.Status,
				RequestID: req.ID,
			})
		}
		if req.Status == leave.StatusApproved {
			// A code change must not strand the previously materialized row:
			// retract the request's row for this date before upserting, since
			// AddLeave matches by (date, code) and would otherwise add a
			// second row alongside the stale one.
			e.sortLeaves()
			for i := len(e.Leaves) - 1; i >= 0; i-- {
				lv := e.Leaves[i]
				if lv.RequestID == req.ID && sameDay(lv.LeaveDate, date) &&
					!strings.EqualFold(lv.Code, code) && !lv.IsActual() {
					e.Leaves = append(e.Leaves[:i], e.Leaves[i+1:]...)
				}
			}
			if code != "" {
				e.AddLeave(0, date, code, leave.StatusApproved, hours, req.ID, "")
			}
		}
		req.AddComment(fmt.Sprintf("Day %s changed to code %s, %.1f hours.",
			date.Format("02 Jan 06"), code, hours))

	case "comment", "addcomment":
		req.AddComment(value)

	default:
		return "", nil, leave.ErrInvalidField
	}

	e.Requests[idx] = req
	return message, &e.Requests[idx], nil
}

// ApproveLeaveRequest approves a request and materializes it. Ordinary
// requests turn each non-blank day of the plan into an authoritative
// APPROVED leave row tied to the request. Mod-time requests materialize as a
// schedule variation over the same window instead; days inside the window
// whose code is itself a catalog leave code still become leave rows, because
// mod time never suppresses genuine leave.
func (e *Employee) ApproveLeaveRequest(requestID, approvedBy string, catalog []leave.Code) (string, error) {
	idx := -1
	for i := range e.Requests {
		if e.Requests[i].ID == requestID {
			idx = i
		}
	}
	if idx < 0 {
		return "", leave.ErrRequestNotFound
	}
	req := e.Requests[idx]

	req.Status = leave.StatusApproved
	req.ApprovedBy = approvedBy
	req.ApprovalDate = time.Now().UTC()
	for d, day := range req.RequestedDays {
		if day.Code != "" {
			day.Status = leave.StatusApproved
			req.RequestedDays[d] = day
		}
	}

	// drop anything materialized by an earlier approval; confirmed rows stay
	e.sortLeaves()
	for i := len(e.Leaves) - 1; i >= 0; i-- {
		if e.Leaves[i].RequestID == req.ID && !e.Leaves[i].IsActual() {
			e.Leaves = append(e.Leaves[:i], e.Leaves[i+1:]...)
		}
	}

	if !req.IsMod() {
		for _, day := range req.RequestedDays {
			if day.Code == "" {
				continue
			}
			e.AddLeave(0, day.LeaveDate, day.Code, leave.StatusApproved,
				day.Hours, req.ID, day.TagDay)
		}
	} else {
		if err := e.materializeModVariation(&req, catalog); err != nil {
			return "", err
		}
	}

	req.AddComment(fmt.Sprintf("Approved by %s.", approvedBy))
	e.Requests[idx] = req
	return "Leave Request approved.", nil
}

// materializeModVariation creates or refreshes the variation backing an
// approved mod-time request. The variation's schedule spans the request
// window padded out to full weeks from the epoch Sunday so its cycle length
// stays a multiple of seven.
func (e *Employee) materializeModVariation(req *leave.Request, catalog []leave.Code) error {
	start := TruncateDay(req.StartDate)
	end := TruncateDay(req.EndDate)
	anchor := schedule.Epoch(start)
	days := int(end.Sub(anchor).Hours()/24) + 1
	if days%schedule.DaysInWeek != 0 {
		days += schedule.DaysInWeek - days%schedule.DaysInWeek
	}

	var vari *schedule.Variation
	for i := range e.Variations {
		v := &e.Variations[i]
		if v.IsMod && v.StartDate.Equal(start) && v.EndDate.Equal(end) {
			vari = v
		}
	}
	if vari == nil {
		vari = e.AddVariation(schedule.Variation{
			Site:      e.SiteID,
			IsMod:     true,
			StartDate: start,
			EndDate:   end,
		})
	}
	sch, err := schedule.NewSchedule(0, days)
	if err != nil {
		return err
	}
	vari.Schedule = sch

	for _, day := range req.RequestedDays {
		if day.Code == "" {
			continue
		}
		if leave.IsLeaveCode(day.Code, catalog) {
			e.AddLeave(0, day.LeaveDate, day.Code, leave.StatusApproved,
				day.Hours, req.ID, day.TagDay)
			continue
		}
		workcenter := ""
		if wd := e.assignmentWorkday(day.LeaveDate); wd != nil {
			workcenter = wd.Workcenter
		}
		offset := int(TruncateDay(day.LeaveDate).Sub(anchor).Hours() / 24)
		if err := vari.Schedule.SetWorkday(uint(offset), workcenter, day.Code, day.Hours); err != nil {
			return err
		}
	}
	return nil
}

// DeleteLeaveRequest removes a request. An approved request first cascades:
// every leave row tied to the request id goes, and a mod request also takes
// its matching variation with it.
func (e *Employee) DeleteLeaveRequest(requestID string) (string, error) {
	idx := -1
	for i := range e.Requests {
		if e.Requests[i].ID == requestID {
			idx = i
		}
	}
	if idx < 0 {
		return "", leave.ErrRequestNotFound
	}
	req := e.Requests[idx]

	if req.Status == leave.StatusApproved {
		e.sortLeaves()
		for i := len(e.Leaves) - 1; i >= 0; i-- {
			if e.Leaves[i].RequestID == req.ID {
				e.Leaves = append(e.Leaves[:i], e.Leaves[i+1:]...)
			}
		}
		if req.IsMod() {
			for i := len(e.Variations) - 1; i >= 0; i-- {
				v := e.Variations[i]
				if v.IsMod && v.StartDate.Equal(req.StartDate) && v.EndDate.Equal(req.EndDate) {
					e.Variations = append(e.Variations[:i], e.Variations[i+1:]...)
				}
			}
		}
	}

	e.Requests = append(e.Requests[:idx], e.Requests[idx+1:]...)
	return fmt.Sprintf("Leave Request from %s deleted.", e.Name.LastFirst()), nil
}
