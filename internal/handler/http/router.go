package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftwatch/scheduler-backend-go/internal/handler/http/middleware"
	"github.com/shiftwatch/scheduler-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, authHandler AuthHandler,
	employeeHandler EmployeeHandler, leaveHandler LeaveHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftwatch-scheduler"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.GetEmployee)
					r.Delete("/", employeeHandler.DeleteEmployee)
					r.Get("/workday", employeeHandler.ResolveWorkday)
					r.Get("/hours", leaveHandler.GetHours)

					r.Route("/assignments", func(r chi.Router) {
						r.Post("/", employeeHandler.AddAssignment)
						r.Route("/{assignmentID}", func(r chi.Router) {
							r.Delete("/", employeeHandler.RemoveAssignment)
							r.Put("/workday", employeeHandler.SetScheduleWorkday)
							r.Post("/schedules", employeeHandler.AddSchedule)
							r.Put("/schedules", employeeHandler.ChangeScheduleDays)
							r.Delete("/schedules/{scheduleID}", employeeHandler.RemoveSchedule)
						})
					})

					r.Route("/variations", func(r chi.Router) {
						r.Post("/", employeeHandler.AddVariation)
						r.Route("/{variationID}", func(r chi.Router) {
							r.Delete("/", employeeHandler.DeleteVariation)
							r.Put("/workday", employeeHandler.SetVariationWorkday)
						})
					})

					r.Route("/leaves", func(r chi.Router) {
						r.Post("/", employeeHandler.AddLeave)
						r.Put("/{leaveID}", employeeHandler.UpdateLeave)
						r.Delete("/{leaveID}", employeeHandler.DeleteLeave)
					})

					r.Route("/balances", func(r chi.Router) {
						r.Get("/", leaveHandler.GetBalances)
						r.Post("/", employeeHandler.CreateBalance)
						r.Put("/{year}", employeeHandler.UpdateBalance)
					})

					r.Route("/requests", func(r chi.Router) {
						r.Post("/", leaveHandler.CreateRequest)
						r.Route("/{requestID}", func(r chi.Router) {
							r.Put("/", leaveHandler.UpdateRequest)
							r.Post("/approve", leaveHandler.ApproveRequest)
							r.Delete("/", leaveHandler.DeleteRequest)
						})
					})
				})
			})
		})
	})
	return r
}
