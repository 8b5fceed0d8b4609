package employee

import (
	"testing"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []leave.Code{
	{ID: "D"},
	{ID: "N"},
	{ID: "V", IsLeave: true},
	{ID: "H", IsLeave: true},
}

func TestNewLeaveRequestDayPlan(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "beach week")
	require.NoError(t, err)

	assert.Equal(t, leave.StatusDraft, req.Status)
	assert.Equal(t, "emp-1", req.EmployeeID)
	require.Len(t, req.RequestedDays, 5, "Monday through Friday is five days")
	for _, day := range req.RequestedDays {
		assert.Equal(t, "V", day.Code)
		assert.Equal(t, 8.0, day.Hours)
		assert.Equal(t, req.ID, day.RequestID)
	}
	require.NotEmpty(t, req.Comments)
	assert.Equal(t, "beach week", req.Comments[len(req.Comments)-1].Comment)
}

func TestNewLeaveRequestBlanksUnscheduledDays(t *testing.T) {
	emp := testEmployee()
	// Monday through Sunday: the weekend resolves empty and stays blank.
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 7), "")
	require.NoError(t, err)

	require.Len(t, req.RequestedDays, 7)
	blanks := 0
	for _, day := range req.RequestedDays {
		if day.Code == "" {
			blanks++
			assert.Equal(t, 0.0, day.Hours)
		}
	}
	assert.Equal(t, 2, blanks)
}

func TestNewLeaveRequestHolidayHours(t *testing.T) {
	emp := testEmployee()
	// Shrink the week to four ten-hour days so the standard day is 10.0.
	require.NoError(t, emp.Assignments[0].SetWorkday(0, 5, "", "", 0))
	for i := 1; i <= 4; i++ {
		require.NoError(t, emp.Assignments[0].SetWorkday(0, uint(i), "ops", "D", 10.0))
	}

	req, err := emp.NewLeaveRequest("H", date(2024, 1, 1), date(2024, 1, 1), "")
	require.NoError(t, err)
	require.Len(t, req.RequestedDays, 1)
	assert.Equal(t, 8.0, req.RequestedDays[0].Hours, "the holiday code is always eight hours")
}

func TestNewLeaveRequestIdempotent(t *testing.T) {
	emp := testEmployee()
	first, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "one")
	require.NoError(t, err)
	second, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "two")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, emp.Requests, 1)
	last := second.Comments[len(second.Comments)-1]
	assert.Equal(t, "two", last.Comment, "repeat submissions only append the comment")
}

func TestNewLeaveRequestInvalidDates(t *testing.T) {
	emp := testEmployee()
	_, err := emp.NewLeaveRequest("V", date(2024, 1, 5), date(2024, 1, 1), "")
	assert.ErrorIs(t, err, leave.ErrInvalidDates)
}

func TestSubmitForApproval(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 7), "")
	require.NoError(t, err)

	message, updated, err := emp.UpdateLeaveRequest(req.ID, "requested", "")
	require.NoError(t, err)
	assert.NotEmpty(t, message)
	assert.Equal(t, leave.StatusRequested, updated.Status)
	for _, day := range updated.RequestedDays {
		if day.Code != "" {
			assert.Equal(t, leave.StatusRequested, day.Status)
		} else {
			assert.Equal(t, leave.StatusDraft, day.Status, "blank days never advance")
		}
	}

	// Submitting a non-draft request again is a no-op.
	message, _, err = emp.UpdateLeaveRequest(req.ID, "requested", "")
	require.NoError(t, err)
	assert.Empty(t, message)
}

func TestApproveMaterializesLedgerRows(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 7), "")
	require.NoError(t, err)
	_, _, err = emp.UpdateLeaveRequest(req.ID, "requested", "")
	require.NoError(t, err)

	message, err := emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)
	assert.NotEmpty(t, message)

	got, _ := requestByID(emp, req.ID)
	require.NotNil(t, got)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Equal(t, "boss-1", got.ApprovedBy)
	assert.False(t, got.ApprovalDate.IsZero())

	require.Len(t, emp.Leaves, 5, "only the five scheduled days materialize")
	for _, lv := range emp.Leaves {
		assert.Equal(t, "V", lv.Code)
		assert.Equal(t, leave.StatusApproved, lv.Status)
		assert.Equal(t, req.ID, lv.RequestID)
	}

	// Re-approving replaces rather than duplicates.
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-2", testCatalog)
	require.NoError(t, err)
	assert.Len(t, emp.Leaves, 5)
}

func requestByID(emp *Employee, id string) (*leave.Request, int) {
	for i := range emp.Requests {
		if emp.Requests[i].ID == id {
			return &emp.Requests[i], i
		}
	}
	return nil, -1
}

func TestApprovedEndDateShrinkRetracts(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)
	require.Len(t, emp.Leaves, 5)

	// Wednesday is inside the approved window: no demotion, but Thursday and
	// Friday's materialized rows are taken back.
	message, updated, err := emp.UpdateLeaveRequest(req.ID, "enddate", "2024-01-03")
	require.NoError(t, err)
	assert.Empty(t, message)
	assert.Equal(t, leave.StatusApproved, updated.Status)
	require.Len(t, emp.Leaves, 3)
	for _, lv := range emp.Leaves {
		assert.False(t, lv.LeaveDate.After(date(2024, 1, 3)))
	}
}

func TestApprovedDateMoveOutOfBoundsDemotes(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)

	// Extending past the approved window needs reapproval.
	message, updated, err := emp.UpdateLeaveRequest(req.ID, "enddate", "2024-01-08")
	require.NoError(t, err)
	assert.NotEmpty(t, message)
	assert.Equal(t, leave.StatusDraft, updated.Status)
	assert.Empty(t, updated.ApprovedBy)
	assert.True(t, updated.ApprovalDate.IsZero())
	assert.Equal(t, date(2024, 1, 8), updated.EndDate)
}

func TestDatesFieldRewritesWindow(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)

	_, updated, err := emp.UpdateLeaveRequest(req.ID, "dates", "2024-02-05|2024-02-09")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 5), updated.StartDate)
	assert.Equal(t, date(2024, 2, 9), updated.EndDate)
	require.Len(t, updated.RequestedDays, 5)

	_, _, err = emp.UpdateLeaveRequest(req.ID, "dates", "2024-02-09|2024-02-05")
	assert.ErrorIs(t, err, leave.ErrInvalidDates)

	_, _, err = emp.UpdateLeaveRequest(req.ID, "dates", "2024-02-09")
	assert.ErrorIs(t, err, leave.ErrInvalidDates)
}

func TestPrimaryCodeChangeRegeneratesPlan(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, _, err = emp.UpdateLeaveRequest(req.ID, "day", "2024-01-03|H|8.0")
	require.NoError(t, err)

	_, updated, err := emp.UpdateLeaveRequest(req.ID, "code", "P")
	require.NoError(t, err)
	for _, day := range updated.RequestedDays {
		assert.Equal(t, "P", day.Code, "a code change resets every day-level edit")
	}
}

func TestDayPatchPreservedAcrossDateEdits(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, _, err = emp.UpdateLeaveRequest(req.ID, "day", "2024-01-03|H|8.0")
	require.NoError(t, err)

	_, updated, err := emp.UpdateLeaveRequest(req.ID, "enddate", "2024-01-04")
	require.NoError(t, err)
	require.Len(t, updated.RequestedDays, 4)
	assert.Equal(t, "H", updated.RequestedDays[2].Code, "the day edit survives the window change")
}

func TestDayPatchWhileApprovedMirrorsLedger(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)

	got, _ := requestByID(emp, req.ID)
	commentsBefore := len(got.Comments)

	_, updated, err := emp.UpdateLeaveRequest(req.ID, "day", "2024-01-03|P|4.0")
	require.NoError(t, err)
	assert.Len(t, updated.Comments, commentsBefore+1, "one comment per day edit")

	// The authoritative ledger picked up the patched day, and the row it
	// replaces is gone: exactly one row covers the patched date.
	var rows []leave.Leave
	for _, lv := range emp.Leaves {
		if lv.LeaveDate.Equal(date(2024, 1, 3)) {
			rows = append(rows, lv)
		}
	}
	require.Len(t, rows, 1)
	assert.Equal(t, "P", rows[0].Code)
	assert.Equal(t, 4.0, rows[0].Hours)
	assert.Equal(t, leave.StatusApproved, rows[0].Status)
	assert.Len(t, emp.Leaves, 5)
}

func TestDayBlankWhileApprovedRetractsRow(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)
	require.Len(t, emp.Leaves, 5)

	_, _, err = emp.UpdateLeaveRequest(req.ID, "day", "2024-01-03||0")
	require.NoError(t, err)

	require.Len(t, emp.Leaves, 4, "blanking a day takes its materialized row with it")
	for _, lv := range emp.Leaves {
		assert.False(t, lv.LeaveDate.Equal(date(2024, 1, 3)))
	}
}

func TestReapprovalAfterRemovingDay(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 3), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)
	require.Len(t, emp.Leaves, 3)

	// Withdraw the approval, drop Tuesday from the plan, approve again: the
	// rematerialization covers only the two days still requested.
	_, _, err = emp.UpdateLeaveRequest(req.ID, "unapprove", "one day too many")
	require.NoError(t, err)
	_, _, err = emp.UpdateLeaveRequest(req.ID, "day", "2024-01-02||0")
	require.NoError(t, err)

	_, err = emp.ApproveLeaveRequest(req.ID, "boss-2", testCatalog)
	require.NoError(t, err)
	require.Len(t, emp.Leaves, 2)
	for _, lv := range emp.Leaves {
		assert.False(t, lv.LeaveDate.Equal(date(2024, 1, 2)))
		assert.Equal(t, leave.StatusApproved, lv.Status)
	}
}

func TestUnapprove(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)

	message, updated, err := emp.UpdateLeaveRequest(req.ID, "unapprove", "coverage gap")
	require.NoError(t, err)
	assert.NotEmpty(t, message)
	assert.Equal(t, leave.StatusDraft, updated.Status)
	assert.Empty(t, updated.ApprovedBy)
}

func TestUpdateUnknownFieldAndRequest(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)

	_, _, err = emp.UpdateLeaveRequest(req.ID, "bogus", "x")
	assert.ErrorIs(t, err, leave.ErrInvalidField)

	_, _, err = emp.UpdateLeaveRequest("missing", "comment", "x")
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)
}

func TestModApprovalMaterializesVariation(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest(leave.PrimaryCodeMod, date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)

	// The mod plan starts from the resolved schedule.
	for _, day := range req.RequestedDays {
		assert.Equal(t, "D", day.Code)
		assert.Equal(t, 8.0, day.Hours)
	}

	// Supervisor trades Wednesday for a night shift and stamps Thursday as
	// vacation before approving.
	_, _, err = emp.UpdateLeaveRequest(req.ID, "day", "2024-01-03|N|12.0")
	require.NoError(t, err)
	_, _, err = emp.UpdateLeaveRequest(req.ID, "day", "2024-01-04|V|8.0")
	require.NoError(t, err)

	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)

	require.Len(t, emp.Variations, 1)
	vari := emp.Variations[0]
	assert.True(t, vari.IsMod)
	assert.Equal(t, date(2024, 1, 1), vari.StartDate)
	assert.Equal(t, date(2024, 1, 5), vari.EndDate)
	assert.Equal(t, 0, len(vari.Schedule.Workdays)%7)

	// The traded day resolves through the variation.
	wed := emp.GetWorkdayWOLeave(date(2024, 1, 3))
	require.NotNil(t, wed)
	assert.Equal(t, "N", wed.Code)
	assert.Equal(t, 12.0, wed.Hours)

	// The genuine leave day became a ledger row, not schedule.
	require.Len(t, emp.Leaves, 1)
	assert.Equal(t, "V", emp.Leaves[0].Code)
	assert.Equal(t, date(2024, 1, 4), emp.Leaves[0].LeaveDate)
	assert.Equal(t, leave.StatusApproved, emp.Leaves[0].Status)
}

func TestDeleteApprovedRequestCascades(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)
	require.Len(t, emp.Leaves, 5)

	message, err := emp.DeleteLeaveRequest(req.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, message)
	assert.Empty(t, emp.Requests)
	assert.Empty(t, emp.Leaves, "every materialized row goes with the request")
}

func TestDeleteApprovedModRequestRemovesVariation(t *testing.T) {
	emp := testEmployee()
	req, err := emp.NewLeaveRequest(leave.PrimaryCodeMod, date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)
	_, err = emp.ApproveLeaveRequest(req.ID, "boss-1", testCatalog)
	require.NoError(t, err)
	require.Len(t, emp.Variations, 1)

	_, err = emp.DeleteLeaveRequest(req.ID)
	require.NoError(t, err)
	assert.Empty(t, emp.Variations)
}

func TestDeleteDraftRequestLeavesLedgerAlone(t *testing.T) {
	emp := testEmployee()
	emp.AddLeave(0, date(2024, 1, 3), "V", leave.StatusActual, 8.0, "", "")
	req, err := emp.NewLeaveRequest("V", date(2024, 1, 1), date(2024, 1, 5), "")
	require.NoError(t, err)

	_, err = emp.DeleteLeaveRequest(req.ID)
	require.NoError(t, err)
	assert.Len(t, emp.Leaves, 1, "draft deletion never touches the ledger")
}

func TestDeleteUnknownRequest(t *testing.T) {
	emp := testEmployee()
	_, err := emp.DeleteLeaveRequest("missing")
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)
}
