package leave

import (
	"strings"
	"time"
)

// Status covers both the leave-request state machine and the per-day leave
// ledger. Requests only ever hold Draft, Requested or Approved; ledger rows
// additionally use Actual once timesheet ingest confirms the hours.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusRequested Status = "REQUESTED"
	StatusApproved  Status = "APPROVED"
	StatusActual    Status = "ACTUAL"
)

// PrimaryCodeMod marks a request for modified-schedule time. Approving such a
// request materializes a schedule variation instead of discrete leave rows.
const PrimaryCodeMod = "mod"

// Leave is an authoritative record of non-work time for a single date. The
// same shape doubles as the proposed per-day entry inside a request's day
// plan.
type Leave struct {
	ID        int       `json:"id"`
	LeaveDate time.Time `json:"leavedate"`
	Code      string    `json:"code"`
	Hours     float64   `json:"hours"`
	Status    Status    `json:"status"`
	RequestID string    `json:"requestid,omitempty"`
	TagDay    string    `json:"tagday,omitempty"`
}

// IsActual reports whether the row was confirmed by timesheet ingest.
func (l *Leave) IsActual() bool {
	return strings.EqualFold(string(l.Status), string(StatusActual))
}

// AnnualLeave is the per-year balance: the annual grant plus whatever
// carried over from the prior year.
type AnnualLeave struct {
	Year      int     `json:"year"`
	Annual    float64 `json:"annual"`
	Carryover float64 `json:"carryover"`
}

// Comment is one entry in a request's append-only audit log.
type Comment struct {
	CommentDate time.Time `json:"commentdate"`
	Comment     string    `json:"comment"`
}

// Request is a proposed multi-day leave: an inclusive date range, a day-by-day
// plan, an approval state machine and the comment log that serves as its only
// history.
type Request struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeid"`
	RequestDate   time.Time `json:"requestDate"`
	PrimaryCode   string    `json:"primarycode"`
	StartDate     time.Time `json:"startdate"`
	EndDate       time.Time `json:"enddate"`
	Status        Status    `json:"status"`
	ApprovedBy    string    `json:"approvedby,omitempty"`
	ApprovalDate  time.Time `json:"approvalDate"`
	RequestedDays []Leave   `json:"requesteddays"`
	Comments      []Comment `json:"comments,omitempty"`
}

// IsMod reports whether the request is for modified-schedule time.
func (r *Request) IsMod() bool {
	return strings.EqualFold(r.PrimaryCode, PrimaryCodeMod)
}

// AddComment appends to the audit log with the current timestamp.
func (r *Request) AddComment(text string) {
	if text == "" {
		return
	}
	r.Comments = append(r.Comments, Comment{
		CommentDate: time.Now().UTC(),
		Comment:     text,
	})
}

// Code is a leave-code catalog entry. The catalog is owned by a collaborator;
// the engine consults it only to tell genuine leave days apart from work
// codes during mod-time approval.
type Code struct {
	ID      string `json:"id"`
	IsLeave bool   `json:"isLeave"`
	AltCode string `json:"altcode,omitempty"`
}

// IsLeaveCode reports whether code names a leave type in the catalog, by id
// or alternate id.
func IsLeaveCode(code string, catalog []Code) bool {
	for _, c := range catalog {
		if c.IsLeave && (strings.EqualFold(c.ID, code) ||
			(c.AltCode != "" && strings.EqualFold(c.AltCode, code))) {
			return true
		}
	}
	return false
}
