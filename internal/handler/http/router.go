package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/chronohr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/chronohr/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	periodHandler PeriodHandler,
	payrollHandler PayrollHandler,
	reportHandler ReportHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chronohr-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
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
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/records", func(r chi.Router) {
					r.Post("/", attendanceHandler.Create)
					r.Post("/batch", attendanceHandler.CreateBatch)
					r.Get("/", attendanceHandler.List)
					r.Delete("/purge", attendanceHandler.Purge)
					r.Put("/{id}", attendanceHandler.Update)
					r.Get("/{recordID}/editability", periodHandler.RecordEditability)
				})

				r.Post("/fetch", attendanceHandler.Fetch)
			})

			r.Route("/periods", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/", periodHandler.Create)
				r.Get("/", periodHandler.List)
				r.Get("/validate", periodHandler.ValidateFinalization)
				r.Get("/{id}", periodHandler.Get)
				r.Post("/{id}/finalize", periodHandler.Finalize)
				r.Post("/{id}/unlock", periodHandler.Unlock)
			})

			r.Route("/payroll/periods", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/", payrollHandler.Calculate)
				r.Get("/{id}", payrollHandler.Get)
				r.Get("/{id}/records", payrollHandler.ListRecords)
				r.Post("/{id}/approve", payrollHandler.Approve)
			})

			// Managers may read reports and the audit trail
			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Get("/monthly-summary", reportHandler.MonthlySummary)
				r.Get("/department-hours", reportHandler.DepartmentHours)
				r.Get("/fetch-activity", reportHandler.RecentFetches)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/audit", auditHandler.List)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
