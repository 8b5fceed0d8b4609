package employee

import (
	"testing"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLeaveUpsertsByDateAndCode(t *testing.T) {
	emp := testEmployee()
	wed := date(2024, 1, 3)

	first := emp.AddLeave(0, wed, "V", leave.StatusDraft, 8.0, "req-1", "")
	require.NotNil(t, first)
	assert.Equal(t, 1, first.ID)

	// Same date and code updates in place, never duplicates.
	second := emp.AddLeave(0, wed, "V", leave.StatusApproved, 6.0, "req-2", "tag")
	require.NotNil(t, second)
	require.Len(t, emp.Leaves, 1)
	assert.Equal(t, 1, second.ID)
	assert.Equal(t, leave.StatusApproved, second.Status)
	assert.Equal(t, 6.0, second.Hours)
	assert.Equal(t, "tag", second.TagDay)
	assert.Equal(t, "req-1", second.RequestID, "the first writer keeps the request linkage")
}

func TestAddLeaveNewRowGetsNextID(t *testing.T) {
	emp := testEmployee()
	emp.AddLeave(0, date(2024, 1, 3), "V", leave.StatusDraft, 8.0, "", "")
	emp.AddLeave(0, date(2024, 1, 4), "V", leave.StatusDraft, 8.0, "", "")
	row := emp.AddLeave(0, date(2024, 1, 2), "P", leave.StatusDraft, 4.0, "", "")

	require.NotNil(t, row)
	assert.Equal(t, 3, row.ID)
	require.Len(t, emp.Leaves, 3)
	// The ledger stays date-ordered.
	assert.Equal(t, date(2024, 1, 2), emp.Leaves[0].LeaveDate)
}

func TestAddLeaveByExplicitID(t *testing.T) {
	emp := testEmployee()
	emp.AddLeave(0, date(2024, 1, 3), "V", leave.StatusDraft, 8.0, "", "")

	row := emp.AddLeave(1, date(2024, 1, 3), "P", leave.StatusActual, 5.0, "", "")
	require.NotNil(t, row)
	require.Len(t, emp.Leaves, 1)
	assert.Equal(t, leave.StatusActual, row.Status)
	assert.Equal(t, 5.0, row.Hours)
}

func TestUpdateLeave(t *testing.T) {
	emp := testEmployee()
	emp.AddLeave(0, date(2024, 1, 3), "V", leave.StatusDraft, 8.0, "", "")

	old, err := emp.UpdateLeave(1, "hours", "4.5")
	require.NoError(t, err)
	assert.Equal(t, 8.0, old.Hours, "the previous value comes back")
	assert.Equal(t, 4.5, emp.Leaves[0].Hours)

	_, err = emp.UpdateLeave(1, "status", "actual")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusActual, emp.Leaves[0].Status)

	_, err = emp.UpdateLeave(1, "date", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 1), emp.Leaves[0].LeaveDate)

	_, err = emp.UpdateLeave(1, "nonsense", "x")
	assert.ErrorIs(t, err, leave.ErrInvalidField)

	_, err = emp.UpdateLeave(42, "hours", "1")
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}

func TestDeleteLeave(t *testing.T) {
	emp := testEmployee()
	emp.AddLeave(0, date(2024, 1, 3), "V", leave.StatusDraft, 8.0, "", "")

	old, err := emp.DeleteLeave(1)
	require.NoError(t, err)
	assert.Equal(t, "V", old.Code)
	assert.Empty(t, emp.Leaves)

	_, err = emp.DeleteLeave(1)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}

func TestRemoveLeavesInclusiveWindow(t *testing.T) {
	emp := testEmployee()
	for d := 1; d <= 5; d++ {
		emp.AddLeave(0, date(2024, 1, d), "V", leave.StatusDraft, 8.0, "", "")
	}

	emp.RemoveLeaves(date(2024, 1, 2), date(2024, 1, 4))
	require.Len(t, emp.Leaves, 2)
	assert.Equal(t, date(2024, 1, 1), emp.Leaves[0].LeaveDate)
	assert.Equal(t, date(2024, 1, 5), emp.Leaves[1].LeaveDate)
}

func TestCreateLeaveBalanceFirstYear(t *testing.T) {
	emp := &Employee{ID: "emp-1"}
	emp.CreateLeaveBalance(2024)

	bal := emp.GetLeaveBalance(2024)
	require.NotNil(t, bal)
	assert.Equal(t, 100.0, bal.Annual)
	assert.Equal(t, 0.0, bal.Carryover)
}

func TestCreateLeaveBalanceIsIdempotent(t *testing.T) {
	emp := &Employee{ID: "emp-1"}
	emp.UpdateAnnualLeave(2024, 120.0, 15.0)
	emp.CreateLeaveBalance(2024)

	require.Len(t, emp.Balances, 1)
	assert.Equal(t, 120.0, emp.Balances[0].Annual, "an existing year is untouched")
	assert.Equal(t, 15.0, emp.Balances[0].Carryover)
}

func TestCreateLeaveBalanceCarryover(t *testing.T) {
	emp := testEmployee()
	emp.UpdateAnnualLeave(2024, 120.0, 10.0)
	// 20 confirmed vacation hours already taken in the new year.
	emp.AddLeave(0, date(2025, 1, 6), "V", leave.StatusActual, 12.0, "", "")
	emp.AddLeave(0, date(2025, 1, 7), "V", leave.StatusActual, 8.0, "", "")
	// Non-vacation and unconfirmed rows do not count.
	emp.AddLeave(0, date(2025, 1, 8), "H", leave.StatusActual, 8.0, "", "")
	emp.AddLeave(0, date(2025, 1, 9), "V", leave.StatusApproved, 8.0, "", "")

	emp.CreateLeaveBalance(2025)
	bal := emp.GetLeaveBalance(2025)
	require.NotNil(t, bal)
	assert.Equal(t, 120.0, bal.Annual, "the grant carries forward")
	assert.Equal(t, 110.0, bal.Carryover, "prior grant plus carryover minus vacation taken")
}

func TestCreateLeaveBalanceZeroGrantYearStillCarries(t *testing.T) {
	emp := testEmployee()
	// A recorded prior year with no annual grant is not the same as no prior
	// year: the carryover still moves forward and nothing reseeds.
	emp.UpdateAnnualLeave(2024, 0.0, 12.0)

	emp.CreateLeaveBalance(2025)
	bal := emp.GetLeaveBalance(2025)
	require.NotNil(t, bal)
	assert.Equal(t, 0.0, bal.Annual)
	assert.Equal(t, 12.0, bal.Carryover)
}

func TestUpdateAnnualLeaveCreatesRow(t *testing.T) {
	emp := &Employee{ID: "emp-1"}
	emp.UpdateAnnualLeave(2024, 96.0, 4.0)
	bal := emp.GetLeaveBalance(2024)
	require.NotNil(t, bal)
	assert.Equal(t, 96.0, bal.Annual)

	emp.UpdateAnnualLeave(2024, 104.0, 0.0)
	require.Len(t, emp.Balances, 1)
	assert.Equal(t, 104.0, emp.Balances[0].Annual)
}

func TestWorkedHoursInclusive(t *testing.T) {
	emp := testEmployee()
	emp.Work = append(emp.Work,
		Work{DateWorked: date(2024, 1, 1), Hours: 8, ChargeNumber: "PRJ-100", Extension: "01"},
		Work{DateWorked: date(2024, 1, 5), Hours: 8, ChargeNumber: "PRJ-100", Extension: "01"},
		Work{DateWorked: date(2024, 1, 6), Hours: 4, ChargeNumber: "PRJ-200", Extension: "02"},
	)

	// Both window bounds count.
	assert.Equal(t, 16.0, emp.GetWorkedHours(date(2024, 1, 1), date(2024, 1, 5)))
	assert.Equal(t, 20.0, emp.GetWorkedHours(date(2024, 1, 1), date(2024, 1, 6)))
	assert.Equal(t, 16.0, emp.GetWorkedHoursForLabor("prj-100", "01", date(2024, 1, 1), date(2024, 1, 31)))
	assert.Equal(t, 4.0, emp.GetWorkedHoursForLabor("PRJ-200", "02", date(2024, 1, 1), date(2024, 1, 31)))
}

func TestLeaveAndPTOHours(t *testing.T) {
	emp := testEmployee()
	emp.AddLeave(0, date(2024, 1, 2), "V", leave.StatusActual, 8.0, "", "")
	emp.AddLeave(0, date(2024, 1, 3), "H", leave.StatusActual, 8.0, "", "")
	emp.AddLeave(0, date(2024, 1, 4), "V", leave.StatusApproved, 8.0, "", "")

	assert.Equal(t, 16.0, emp.GetLeaveHours(date(2024, 1, 1), date(2024, 1, 31)), "approved rows are not yet real")
	assert.Equal(t, 8.0, emp.GetPTOHours(date(2024, 1, 1), date(2024, 1, 31)), "only confirmed vacation counts")
}

func TestGetForecastHours(t *testing.T) {
	emp := testEmployee()
	emp.Assignments[0].AddLaborCode("PRJ-100", "01")
	lc := LaborCharge{
		ChargeNumber: "PRJ-100",
		Extension:    "01",
		StartDate:    date(2024, 1, 1),
		EndDate:      date(2024, 12, 31),
	}

	// Monday through Friday ahead of any recorded work: five standard days.
	got := emp.GetForecastHours(lc, date(2024, 1, 1), date(2024, 1, 6), nil)
	assert.Equal(t, 40.0, got)

	// A charge the employee does not bill forecasts nothing.
	other := LaborCharge{ChargeNumber: "PRJ-999", Extension: "01",
		StartDate: date(2024, 1, 1), EndDate: date(2024, 12, 31)}
	assert.Equal(t, 0.0, emp.GetForecastHours(other, date(2024, 1, 1), date(2024, 1, 6), nil))
}
