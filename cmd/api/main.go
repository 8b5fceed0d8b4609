package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/shiftwatch/scheduler-backend-go/internal/config"
	appHTTP "github.com/shiftwatch/scheduler-backend-go/internal/handler/http"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/cron"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/database"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/email"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/jwt"
	"github.com/shiftwatch/scheduler-backend-go/internal/repository/postgresql"
	authService "github.com/shiftwatch/scheduler-backend-go/internal/service/auth"
	employeeService "github.com/shiftwatch/scheduler-backend-go/internal/service/employee"
	leaveService "github.com/shiftwatch/scheduler-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	empService := employeeService.NewEmployeeService(employeeRepo)
	requestService := leaveService.NewRequestService(employeeRepo, emailService)
	hoursService := leaveService.NewLeaveService(employeeRepo)
	authSvc := authService.NewAuthService(employeeRepo, JWTService)

	authHandler := appHTTP.NewAuthHandler(JWTService, authSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(empService)
	leaveHandler := appHTTP.NewLeaveHandler(requestService, hoursService)

	scheduler := cron.NewScheduler()
	cron.NewScheduleJobs(empService, cfg.Cron).RegisterJobs(scheduler, cfg.Cron)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, authHandler, employeeHandler, leaveHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
