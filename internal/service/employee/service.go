package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/schedule"
)

// Service orchestrates employee aggregate operations: load the document,
// mutate it through aggregate methods, replace it whole. Nothing here holds
// business rules; those live on the aggregate.
type Service struct {
	employee.EmployeeRepository
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository) *Service {
	return &Service{EmployeeRepository: employeeRepository}
}

// CreateEmployeeRequest carries the fields needed to open a new employee
// record with its first assignment.
type CreateEmployeeRequest struct {
	TeamID     string
	SiteID     string
	Workcenter string
	Email      string
	First      string
	Middle     string
	Last       string
	StartDate  time.Time
}

func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (employee.Employee, error) {
	emp := employee.Employee{
		ID:     uuid.NewString(),
		TeamID: req.TeamID,
		SiteID: req.SiteID,
		Email:  req.Email,
		Name: employee.Name{
			FirstName:  req.First,
			MiddleName: req.Middle,
			LastName:   req.Last,
		},
	}
	emp.AddAssignment(req.SiteID, req.Workcenter, req.StartDate)
	emp.CreateLeaveBalance(req.StartDate.Year())

	created, err := s.EmployeeRepository.Create(ctx, emp)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return emp, nil
}

func (s *Service) ListBySite(ctx context.Context, teamID, siteID string) ([]employee.Employee, error) {
	emps, err := s.EmployeeRepository.ListBySite(ctx, teamID, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return emps, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.EmployeeRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// ResolveWorkday answers the read path for one employee and date.
func (s *Service) ResolveWorkday(ctx context.Context, id string, date time.Time,
	mode employee.ResolveMode, codes []leave.Code) (*schedule.Workday, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	return emp.ResolveWorkday(date, mode, codes), nil
}

// mutate loads the aggregate, applies fn and replaces the document. The
// replace is a compare-and-swap; a lost race surfaces as
// employee.ErrVersionConflict and is never retried here.
func (s *Service) mutate(ctx context.Context, id string, fn func(*employee.Employee) error) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	if err := fn(&emp); err != nil {
		return employee.Employee{}, err
	}
	updated, err := s.EmployeeRepository.Replace(ctx, emp)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to replace employee document: %w", err)
	}
	return updated, nil
}

func (s *Service) AddAssignment(ctx context.Context, id, site, workcenter string, start time.Time) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		emp.AddAssignment(site, workcenter, start)
		return nil
	})
}

func (s *Service) RemoveAssignment(ctx context.Context, id string, assignmentID uint) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		return emp.RemoveAssignment(assignmentID)
	})
}

func (s *Service) AddSchedule(ctx context.Context, id string, assignmentID uint, days int) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		asgmt, err := emp.GetAssignmentByID(assignmentID)
		if err != nil {
			return err
		}
		return asgmt.AddSchedule(days)
	})
}

func (s *Service) ChangeScheduleDays(ctx context.Context, id string, assignmentID uint, scheduleID, days int) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		asgmt, err := emp.GetAssignmentByID(assignmentID)
		if err != nil {
			return err
		}
		return asgmt.ChangeScheduleDays(scheduleID, days)
	})
}

func (s *Service) RemoveSchedule(ctx context.Context, id string, assignmentID uint, scheduleID int) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		asgmt, err := emp.GetAssignmentByID(assignmentID)
		if err != nil {
			return err
		}
		return asgmt.RemoveSchedule(scheduleID)
	})
}

func (s *Service) SetScheduleWorkday(ctx context.Context, id string, assignmentID uint,
	scheduleID int, workdayID uint, workcenter, code string, hours float64) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		asgmt, err := emp.GetAssignmentByID(assignmentID)
		if err != nil {
			return err
		}
		return asgmt.SetWorkday(scheduleID, workdayID, workcenter, code, hours)
	})
}

func (s *Service) AddVariation(ctx context.Context, id string, vari schedule.Variation) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		emp.AddVariation(vari)
		return nil
	})
}

func (s *Service) SetVariationWorkday(ctx context.Context, id string, variationID, workdayID uint,
	workcenter, code string, hours float64) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		vari, err := emp.GetVariationByID(variationID)
		if err != nil {
			return err
		}
		return vari.Schedule.SetWorkday(workdayID, workcenter, code, hours)
	})
}

func (s *Service) DeleteVariation(ctx context.Context, id string, variationID uint) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		return emp.DeleteVariation(variationID)
	})
}

func (s *Service) AddLeave(ctx context.Context, id string, date time.Time, code string,
	status leave.Status, hours float64, requestID, tag string) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		emp.AddLeave(0, date, code, status, hours, requestID, tag)
		return nil
	})
}

func (s *Service) UpdateLeave(ctx context.Context, id string, leaveID int, field, value string) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		_, err := emp.UpdateLeave(leaveID, field, value)
		return err
	})
}

func (s *Service) DeleteLeave(ctx context.Context, id string, leaveID int) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		_, err := emp.DeleteLeave(leaveID)
		return err
	})
}

func (s *Service) CreateLeaveBalance(ctx context.Context, id string, year int) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		emp.CreateLeaveBalance(year)
		return nil
	})
}

func (s *Service) UpdateAnnualLeave(ctx context.Context, id string, year int, annual, carry float64) (employee.Employee, error) {
	return s.mutate(ctx, id, func(emp *employee.Employee) error {
		emp.UpdateAnnualLeave(year, annual, carry)
		return nil
	})
}

// RolloverBalances seeds the balance row for year on every employee. Run by
// the cron scheduler at the turn of the year; existing balances are no-ops.
func (s *Service) RolloverBalances(ctx context.Context, year int) error {
	emps, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	for _, emp := range emps {
		emp.CreateLeaveBalance(year)
		if _, err := s.EmployeeRepository.Replace(ctx, emp); err != nil {
			return fmt.Errorf("failed to replace employee document: %w", err)
		}
	}
	return nil
}

// PurgeOldData removes variations, leaves, requests and balances that ended
// before the cutoff on every employee; employees whose final assignment also
// ended before the cutoff are deleted outright.
func (s *Service) PurgeOldData(ctx context.Context, before time.Time) error {
	emps, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	for _, emp := range emps {
		if gone := emp.PurgeOldData(before); gone {
			if err := s.EmployeeRepository.Delete(ctx, emp.ID); err != nil {
				return fmt.Errorf("failed to delete purged employee: %w", err)
			}
			continue
		}
		if _, err := s.EmployeeRepository.Replace(ctx, emp); err != nil {
			return fmt.Errorf("failed to replace employee document: %w", err)
		}
	}
	return nil
}
