package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/handler/http/response"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/validator"
	leavesvc "github.com/shiftwatch/scheduler-backend-go/internal/service/leave"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)

	GetHours(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	requestService *leavesvc.RequestService
	leaveService   *leavesvc.Service
}

func NewLeaveHandler(requestService *leavesvc.RequestService, leaveService *leavesvc.Service) LeaveHandler {
	return &leaveHandlerImpl{
		requestService: requestService,
		leaveService:   leaveService,
	}
}

type CreateLeaveRequestRequest struct {
	Code      string `json:"code"`
	StartDate string `json:"startdate"`
	EndDate   string `json:"enddate"`
	Comment   string `json:"comment"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "startdate", Message: "startdate must be a date in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "enddate", Message: "enddate must be a date in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "enddate", Message: "enddate must not precede startdate"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateRequest implements LeaveHandler.
func (l *leaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	_, created, err := l.requestService.Create(r.Context(), id, req.Code, start, end, req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", created)
}

type UpdateLeaveRequestRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Field) {
		errs = append(errs, validator.ValidationError{Field: "field", Message: "field is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateRequest implements LeaveHandler - field/value patches against the
// request state machine.
func (l *leaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	requestID := chi.URLParam(r, "requestID")
	if validator.IsEmpty(requestID) {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	var req UpdateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, message, err := l.requestService.Update(r.Context(), id, requestID, req.Field, req.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// ApproveRequest implements LeaveHandler. The approver is taken from the JWT
// claims, never from the body.
func (l *leaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	requestID := chi.URLParam(r, "requestID")
	if validator.IsEmpty(requestID) {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}
	approvedBy, ok := claims["employee_id"].(string)
	if !ok || approvedBy == "" {
		response.Forbidden(w, "Employee ID not found in token")
		return
	}

	result, message, err := l.requestService.Approve(r.Context(), id, requestID, approvedBy, leave.DefaultCatalog)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// DeleteRequest implements LeaveHandler.
func (l *leaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	requestID := chi.URLParam(r, "requestID")
	if validator.IsEmpty(requestID) {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	result, message, err := l.requestService.Delete(r.Context(), id, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// GetHours implements LeaveHandler - worked/leave/PTO hour totals over an
// inclusive date window.
func (l *leaveHandlerImpl) GetHours(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	start, ok := validator.IsValidDate(r.URL.Query().Get("start"))
	if !ok {
		response.BadRequest(w, "start query parameter must be a date in YYYY-MM-DD format", nil)
		return
	}
	end, ok := validator.IsValidDate(r.URL.Query().Get("end"))
	if !ok {
		response.BadRequest(w, "end query parameter must be a date in YYYY-MM-DD format", nil)
		return
	}

	summary, err := l.leaveService.GetHours(r.Context(), id, start, end,
		r.URL.Query().Get("charge"), r.URL.Query().Get("extension"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetBalances implements LeaveHandler.
func (l *leaveHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	balances, err := l.leaveService.GetBalances(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}
