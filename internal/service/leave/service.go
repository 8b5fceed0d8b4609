package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
)

// Service answers the read-side hour aggregations reporting consumers ask
// for. All sums are over inclusive UTC day ranges.
type Service struct {
	employee.EmployeeRepository
}

func NewLeaveService(employeeRepository employee.EmployeeRepository) *Service {
	return &Service{EmployeeRepository: employeeRepository}
}

// HoursSummary is one employee's hour totals over a window.
type HoursSummary struct {
	EmployeeID string  `json:"employeeid"`
	Worked     float64 `json:"worked"`
	Leave      float64 `json:"leave"`
	PTO        float64 `json:"pto"`
}

func (s *Service) GetHours(ctx context.Context, employeeID string, start, end time.Time,
	chargeNumber, extension string) (HoursSummary, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return HoursSummary{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	summary := HoursSummary{
		EmployeeID: emp.ID,
		Leave:      emp.GetLeaveHours(start, end),
		PTO:        emp.GetPTOHours(start, end),
	}
	if chargeNumber != "" {
		summary.Worked = emp.GetWorkedHoursForLabor(chargeNumber, extension, start, end)
	} else {
		summary.Worked = emp.GetWorkedHours(start, end)
	}
	return summary, nil
}

func (s *Service) GetBalances(ctx context.Context, employeeID string) ([]leave.AnnualLeave, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return emp.Balances, nil
}
