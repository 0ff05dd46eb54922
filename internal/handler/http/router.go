package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/autopay-os/payroll-backend-go/internal/handler/http/middleware"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler, anomalyHandler AnomalyHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
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

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {

				r.Route("/salary-structures", func(r chi.Router) {
					r.Get("/{employeeID}", payrollHandler.GetSalaryStructure)

					// HR manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHRManager)
						r.Post("/", payrollHandler.CreateSalaryStructure)
						r.Put("/{employeeID}", payrollHandler.UpdateSalaryStructure)
					})
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHRManager)
					r.Post("/process", payrollHandler.ProcessPayroll)
				})

				r.Get("/history/{employeeID}", payrollHandler.GetPayrollHistory)
			})

			r.Route("/anomalies", func(r chi.Router) {
				r.Get("/", anomalyHandler.ListAnomalies)

				// HR manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireHRManager)
					r.Put("/{id}/resolve", anomalyHandler.ResolveAnomaly)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
