package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftwatch/scheduler-backend-go/internal/config"
	employeesvc "github.com/shiftwatch/scheduler-backend-go/internal/service/employee"
)

// ScheduleJobs contains the schedule maintenance cron jobs: seeding next
// year's leave balances and purging records past the retention window.
type ScheduleJobs struct {
	employeeService *employeesvc.Service
	retentionYears  int
}

func NewScheduleJobs(employeeService *employeesvc.Service, cfg config.CronConfig) *ScheduleJobs {
	return &ScheduleJobs{
		employeeService: employeeService,
		retentionYears:  cfg.RetentionYears,
	}
}

// RegisterJobs registers all schedule maintenance cron jobs
func (j *ScheduleJobs) RegisterJobs(scheduler *Scheduler, cfg config.CronConfig) {
	scheduler.AddJob("rollover_leave_balances", parseInterval(cfg.RolloverInterval, 24*time.Hour), j.RolloverBalances)
	scheduler.AddJob("purge_old_schedule_data", parseInterval(cfg.PurgeInterval, 168*time.Hour), j.PurgeOldData)
}

func parseInterval(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("Invalid cron interval, using fallback", "value", value, "fallback", fallback)
		return fallback
	}
	return d
}

// RolloverBalances seeds the upcoming year's balance row for every employee
// once December begins. Employees already carrying the row are untouched.
func (j *ScheduleJobs) RolloverBalances(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Month() != time.December {
		return nil
	}

	year := now.Year() + 1
	slog.Info("Cron: Starting leave balance rollover", "year", year)
	if err := j.employeeService.RolloverBalances(ctx, year); err != nil {
		return err
	}
	slog.Info("Cron: Leave balance rollover completed", "year", year)
	return nil
}

// PurgeOldData drops schedule records older than the retention window.
func (j *ScheduleJobs) PurgeOldData(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(-j.retentionYears, 0, 0)
	slog.Info("Cron: Starting schedule data purge", "cutoff", cutoff.Format("2006-01-02"))
	if err := j.employeeService.PurgeOldData(ctx, cutoff); err != nil {
		return err
	}
	slog.Info("Cron: Schedule data purge completed")
	return nil
}
