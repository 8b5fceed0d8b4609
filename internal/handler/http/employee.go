package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/employee"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/leave"
	"github.com/shiftwatch/scheduler-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/scheduler-backend-go/internal/handler/http/response"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/validator"
	employeesvc "github.com/shiftwatch/scheduler-backend-go/internal/service/employee"
)

type EmployeeHandler interface {
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ResolveWorkday(w http.ResponseWriter, r *http.Request)

	AddAssignment(w http.ResponseWriter, r *http.Request)
	RemoveAssignment(w http.ResponseWriter, r *http.Request)
	AddSchedule(w http.ResponseWriter, r *http.Request)
	ChangeScheduleDays(w http.ResponseWriter, r *http.Request)
	RemoveSchedule(w http.ResponseWriter, r *http.Request)
	SetScheduleWorkday(w http.ResponseWriter, r *http.Request)

	AddVariation(w http.ResponseWriter, r *http.Request)
	SetVariationWorkday(w http.ResponseWriter, r *http.Request)
	DeleteVariation(w http.ResponseWriter, r *http.Request)

	AddLeave(w http.ResponseWriter, r *http.Request)
	UpdateLeave(w http.ResponseWriter, r *http.Request)
	DeleteLeave(w http.ResponseWriter, r *http.Request)
	CreateBalance(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService *employeesvc.Service
}

func NewEmployeeHandler(employeeService *employeesvc.Service) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

func employeeID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	return id, !validator.IsEmpty(id)
}

type CreateEmployeeRequest struct {
	TeamID     string `json:"team"`
	SiteID     string `json:"site"`
	Workcenter string `json:"workcenter"`
	Email      string `json:"email"`
	First      string `json:"first"`
	Middle     string `json:"middle"`
	Last       string `json:"last"`
	Start      string `json:"start"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TeamID) {
		errs = append(errs, validator.ValidationError{Field: "team", Message: "team is required"})
	}
	if validator.IsEmpty(r.SiteID) {
		errs = append(errs, validator.ValidationError{Field: "site", Message: "site is required"})
	}
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is not a valid address"})
	}
	if validator.IsEmpty(r.Last) {
		errs = append(errs, validator.ValidationError{Field: "last", Message: "last name is required"})
	}
	if _, ok := validator.IsValidDate(r.Start); !ok {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "start must be a date in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, _ := validator.IsValidDate(req.Start)

	result, err := h.employeeService.Create(r.Context(), employeesvc.CreateEmployeeRequest{
		TeamID:     req.TeamID,
		SiteID:     req.SiteID,
		Workcenter: req.Workcenter,
		Email:      req.Email,
		First:      req.First,
		Middle:     req.Middle,
		Last:       req.Last,
		StartDate:  start,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.employeeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	teamID := r.URL.Query().Get("team")
	siteID := r.URL.Query().Get("site")
	if validator.IsEmpty(teamID) || validator.IsEmpty(siteID) {
		response.BadRequest(w, "team and site query parameters are required", nil)
		return
	}

	results, err := h.employeeService.ListBySite(r.Context(), teamID, siteID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// DeleteEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

var resolveModes = []string{
	string(employee.ModeGeneral),
	string(employee.ModeActual),
	string(employee.ModeNoLeaves),
}

// ResolveWorkday implements EmployeeHandler - the day resolution read path.
func (h *employeeHandlerImpl) ResolveWorkday(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	date, ok := validator.IsValidDate(r.URL.Query().Get("date"))
	if !ok {
		response.BadRequest(w, "date query parameter must be a date in YYYY-MM-DD format", nil)
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = string(employee.ModeGeneral)
	}
	if !validator.IsInSlice(mode, resolveModes) {
		response.BadRequest(w, "mode must be one of general, actual, noleaves", nil)
		return
	}

	workday, err := h.employeeService.ResolveWorkday(r.Context(), id, date,
		employee.ResolveMode(mode), leave.DefaultCatalog)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, workday)
}

type AddAssignmentRequest struct {
	Site       string `json:"site"`
	Workcenter string `json:"workcenter"`
	Start      string `json:"start"`
}

func (r *AddAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Site) {
		errs = append(errs, validator.ValidationError{Field: "site", Message: "site is required"})
	}
	if _, ok := validator.IsValidDate(r.Start); !ok {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "start must be a date in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AddAssignment implements EmployeeHandler.
func (h *employeeHandlerImpl) AddAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req AddAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddAssignment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, _ := validator.IsValidDate(req.Start)

	result, err := h.employeeService.AddAssignment(r.Context(), id, req.Site, req.Workcenter, start)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Assignment added successfully", result)
}

func uintParam(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	return uint(v), err == nil
}

// RemoveAssignment implements EmployeeHandler.
func (h *employeeHandlerImpl) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	assignmentID, ok := uintParam(r, "assignmentID")
	if !ok {
		response.BadRequest(w, "Assignment ID must be numeric", nil)
		return
	}

	result, err := h.employeeService.RemoveAssignment(r.Context(), id, assignmentID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment removed successfully", result)
}

type AddScheduleRequest struct {
	Days int `json:"days"`
}

// AddSchedule implements EmployeeHandler.
func (h *employeeHandlerImpl) AddSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	assignmentID, ok := uintParam(r, "assignmentID")
	if !ok {
		response.BadRequest(w, "Assignment ID must be numeric", nil)
		return
	}

	var req AddScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddSchedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.AddSchedule(r.Context(), id, assignmentID, req.Days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule added successfully", result)
}

type ChangeScheduleDaysRequest struct {
	ScheduleID int `json:"scheduleid"`
	Days       int `json:"days"`
}

// ChangeScheduleDays implements EmployeeHandler.
func (h *employeeHandlerImpl) ChangeScheduleDays(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	assignmentID, ok := uintParam(r, "assignmentID")
	if !ok {
		response.BadRequest(w, "Assignment ID must be numeric", nil)
		return
	}

	var req ChangeScheduleDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ChangeScheduleDays decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.ChangeScheduleDays(r.Context(), id, assignmentID, req.ScheduleID, req.Days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule resized successfully", result)
}

// RemoveSchedule implements EmployeeHandler.
func (h *employeeHandlerImpl) RemoveSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	assignmentID, ok := uintParam(r, "assignmentID")
	if !ok {
		response.BadRequest(w, "Assignment ID must be numeric", nil)
		return
	}
	scheduleID, err := strconv.Atoi(chi.URLParam(r, "scheduleID"))
	if err != nil {
		response.BadRequest(w, "Schedule ID must be numeric", nil)
		return
	}

	result, err := h.employeeService.RemoveSchedule(r.Context(), id, assignmentID, scheduleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule removed successfully", result)
}

type SetWorkdayRequest struct {
	ScheduleID int     `json:"scheduleid"`
	WorkdayID  uint    `json:"workdayid"`
	Workcenter string  `json:"workcenter"`
	Code       string  `json:"code"`
	Hours      float64 `json:"hours"`
}

// SetScheduleWorkday implements EmployeeHandler.
func (h *employeeHandlerImpl) SetScheduleWorkday(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	assignmentID, ok := uintParam(r, "assignmentID")
	if !ok {
		response.BadRequest(w, "Assignment ID must be numeric", nil)
		return
	}

	var req SetWorkdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetScheduleWorkday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.SetScheduleWorkday(r.Context(), id, assignmentID,
		req.ScheduleID, req.WorkdayID, req.Workcenter, req.Code, req.Hours)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Workday updated successfully", result)
}

type AddVariationRequest struct {
	Site  string `json:"site"`
	IsMod bool   `json:"ismod"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r *AddVariationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Site) {
		errs = append(errs, validator.ValidationError{Field: "site", Message: "site is required"})
	}
	start, startOK := validator.IsValidDate(r.Start)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start", Message: "start must be a date in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.End)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "end must be a date in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end", Message: "end must not precede start"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AddVariation implements EmployeeHandler.
func (h *employeeHandlerImpl) AddVariation(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req AddVariationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddVariation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	start, _ := validator.IsValidDate(req.Start)
	end, _ := validator.IsValidDate(req.End)

	vari := schedule.Variation{
		Site:      req.Site,
		IsMod:     req.IsMod,
		StartDate: start,
		EndDate:   end,
	}
	// Size the variation's schedule to whole weeks covering the window.
	weeks := int(end.Sub(start).Hours()/24)/schedule.DaysInWeek + 1
	if err := vari.SetScheduleDays(weeks * schedule.DaysInWeek); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.AddVariation(r.Context(), id, vari)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Variation added successfully", result)
}

// SetVariationWorkday implements EmployeeHandler.
func (h *employeeHandlerImpl) SetVariationWorkday(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	variationID, ok := uintParam(r, "variationID")
	if !ok {
		response.BadRequest(w, "Variation ID must be numeric", nil)
		return
	}

	var req SetWorkdayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetVariationWorkday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.SetVariationWorkday(r.Context(), id, variationID,
		req.WorkdayID, req.Workcenter, req.Code, req.Hours)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Variation workday updated successfully", result)
}

// DeleteVariation implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteVariation(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	variationID, ok := uintParam(r, "variationID")
	if !ok {
		response.BadRequest(w, "Variation ID must be numeric", nil)
		return
	}

	result, err := h.employeeService.DeleteVariation(r.Context(), id, variationID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Variation deleted successfully", result)
}

type AddLeaveRequest struct {
	Date      string  `json:"date"`
	Code      string  `json:"code"`
	Status    string  `json:"status"`
	Hours     float64 `json:"hours"`
	RequestID string  `json:"requestid"`
	TagDay    string  `json:"tagday"`
}

func (r *AddLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be a date in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	if r.Hours < 0 {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "hours must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AddLeave implements EmployeeHandler - upserts one ledger row.
func (h *employeeHandlerImpl) AddLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req AddLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddLeave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	date, _ := validator.IsValidDate(req.Date)
	status := leave.StatusDraft
	if !validator.IsEmpty(req.Status) {
		status = leave.Status(req.Status)
	}

	result, err := h.employeeService.AddLeave(r.Context(), id, date, req.Code, status,
		req.Hours, req.RequestID, req.TagDay)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave recorded successfully", result)
}

type UpdateLeaveRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Field) {
		errs = append(errs, validator.ValidationError{Field: "field", Message: "field is required"})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateLeave implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	leaveID, err := strconv.Atoi(chi.URLParam(r, "leaveID"))
	if err != nil {
		response.BadRequest(w, "Leave ID must be numeric", nil)
		return
	}

	var req UpdateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateLeave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.employeeService.UpdateLeave(r.Context(), id, leaveID, req.Field, req.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave updated successfully", result)
}

// DeleteLeave implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	leaveID, err := strconv.Atoi(chi.URLParam(r, "leaveID"))
	if err != nil {
		response.BadRequest(w, "Leave ID must be numeric", nil)
		return
	}

	result, err := h.employeeService.DeleteLeave(r.Context(), id, leaveID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave deleted successfully", result)
}

type CreateBalanceRequest struct {
	Year int `json:"year"`
}

// CreateBalance implements EmployeeHandler - idempotent per year.
func (h *employeeHandlerImpl) CreateBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req CreateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.Year < 1970 {
		response.BadRequest(w, "year must be a four digit year", nil)
		return
	}

	result, err := h.employeeService.CreateLeaveBalance(r.Context(), id, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Balance created successfully", result)
}

type UpdateBalanceRequest struct {
	Annual    float64 `json:"annual"`
	Carryover float64 `json:"carryover"`
}

// UpdateBalance implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := employeeID(r)
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1970 {
		response.BadRequest(w, "year must be a four digit year", nil)
		return
	}

	var req UpdateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.UpdateAnnualLeave(r.Context(), id, year, req.Annual, req.Carryover)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Balance updated successfully", result)
}
