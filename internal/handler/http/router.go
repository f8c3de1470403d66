package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-payroll/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the route handlers mounted under /api/v1.
type Handlers struct {
	Payroll    PayrollHandler
	Salary     SalaryHandler
	Leave      LeaveHandler
	Attendance AttendanceHandler
	Events     EventsHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, metrics prometheus.Gatherer, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates with its own short-lived query token
		r.Get("/events", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.With(middleware.RequireApprover).Get("/events/token", h.Events.Token)

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/periods/{year}/{month}", func(r chi.Router) {
					r.With(middleware.RequireApprover).Get("/", h.Payroll.ListPeriod)
					r.With(middleware.RequireApprover).Get("/summary", h.Payroll.GetPeriodSummary)

					r.With(middleware.RequireAdmin).Post("/generate", h.Payroll.GeneratePeriod)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Payroll.GetRecord)

					// Approver only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireApprover)
						r.Post("/compute", h.Payroll.Compute)
						r.Post("/approve", h.Payroll.Approve)
						r.Post("/pay", h.Payroll.Pay)
						r.Post("/cancel", h.Payroll.Cancel)
					})
				})
			})

			r.Route("/salary", func(r chi.Router) {
				r.Route("/components", func(r chi.Router) {
					r.Get("/", h.Salary.ListComponents)
					r.With(middleware.RequireAdmin).Post("/", h.Salary.CreateComponent)
				})

				r.Route("/assignments", func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Salary.AssignComponent)
					r.Post("/{id}/end", h.Salary.EndAssignment)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/types", h.Leave.ListTypes)
				r.With(middleware.RequireAdmin).Post("/balances/allocate", h.Leave.AllocateBalances)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", h.Leave.CreateRequest)
					r.Post("/validate", h.Leave.ValidateRequest)
					r.With(middleware.RequireApprover).Get("/pending", h.Leave.ListPending)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", h.Leave.GetRequest)
						r.Post("/cancel", h.Leave.Cancel)

						// Approver only
						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireApprover)
							r.Post("/approve", h.Leave.Approve)
							r.Post("/reject", h.Leave.Reject)
						})
					})
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequireApprover).Get("/", h.Attendance.ListByDate)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.With(middleware.RequireApprover).Post("/manual", h.Attendance.AddManual)
			})

			r.Route("/employees/{employeeID}", func(r chi.Router) {
				r.Use(middleware.RequireSelfOrApprover)
				r.Get("/salary-components", h.Salary.ListAssignments)
				r.Get("/salary-components/active", h.Salary.ActiveComponents)
				r.Get("/leave-requests", h.Leave.ListEmployeeRequests)
				r.Get("/leave-balances", h.Leave.ListBalances)
				r.Get("/attendance", h.Attendance.ListByRange)
				r.Get("/attendance/stats/{year}/{month}", h.Attendance.MonthlyStats)
			})
		})
	})
	return r
}
