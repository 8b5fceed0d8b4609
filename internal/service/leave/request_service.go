package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/email"
)

// RequestService drives the leave-request workflow: every call loads the
// employee document, runs the aggregate's state machine, replaces the
// document, and hands any notification text to the email collaborator.
type RequestService struct {
	employee.EmployeeRepository
	email email.Service
}

func NewRequestService(employeeRepository employee.EmployeeRepository, emailService email.Service) *RequestService {
	return &RequestService{
		EmployeeRepository: employeeRepository,
		email:              emailService,
	}
}

// notify delivers workflow mail. Delivery failures are logged, never
// surfaced: the aggregate change already happened and must not be rolled
// back over a mail hiccup.
func (r *RequestService) notify(to, subject, message string) {
	if message == "" || to == "" || r.email == nil {
		return
	}
	if err := r.email.SendLeaveNotification(to, subject, message); err != nil {
		slog.Error("leave notification not delivered", "to", to, "error", err)
	}
}

func (r *RequestService) Create(ctx context.Context, employeeID, code string,
	start, end time.Time, comment string) (employee.Employee, *leave.Request, error) {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	req, err := emp.NewLeaveRequest(code, start, end, comment)
	if err != nil {
		return employee.Employee{}, nil, err
	}
	reqID := req.ID
	updated, err := r.EmployeeRepository.Replace(ctx, emp)
	if err != nil {
		return employee.Employee{}, nil, fmt.Errorf("failed to replace employee document: %w", err)
	}
	for i := range updated.Requests {
		if updated.Requests[i].ID == reqID {
			return updated, &updated.Requests[i], nil
		}
	}
	return updated, nil, nil
}

func (r *RequestService) Update(ctx context.Context, employeeID, requestID, field, value string) (employee.Employee, string, error) {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, "", fmt.Errorf("failed to get employee by ID: %w", err)
	}
	message, _, err := emp.UpdateLeaveRequest(requestID, field, value)
	if err != nil {
		return employee.Employee{}, "", err
	}
	updated, err := r.EmployeeRepository.Replace(ctx, emp)
	if err != nil {
		return employee.Employee{}, "", fmt.Errorf("failed to replace employee document: %w", err)
	}
	r.notify(updated.Email, "Leave Request Update", message)
	return updated, message, nil
}

func (r *RequestService) Approve(ctx context.Context, employeeID, requestID, approvedBy string,
	catalog []leave.Code) (employee.Employee, string, error) {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, "", fmt.Errorf("failed to get employee by ID: %w", err)
	}
	message, err := emp.ApproveLeaveRequest(requestID, approvedBy, catalog)
	if err != nil {
		return employee.Employee{}, "", err
	}
	updated, err := r.EmployeeRepository.Replace(ctx, emp)
	if err != nil {
		return employee.Employee{}, "", fmt.Errorf("failed to replace employee document: %w", err)
	}
	r.notify(updated.Email, "Leave Request Approved", message)
	return updated, message, nil
}

func (r *RequestService) Delete(ctx context.Context, employeeID, requestID string) (employee.Employee, string, error) {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, "", fmt.Errorf("failed to get employee by ID: %w", err)
	}
	message, err := emp.DeleteLeaveRequest(requestID)
	if err != nil {
		return employee.Employee{}, "", err
	}
	updated, err := r.EmployeeRepository.Replace(ctx, emp)
	if err != nil {
		return employee.Employee{}, "", fmt.Errorf("failed to replace employee document: %w", err)
	}
	r.notify(updated.Email, "Leave Request Deleted", message)
	return updated, message, nil
}
