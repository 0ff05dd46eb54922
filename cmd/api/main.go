package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/autopay-os/payroll-backend-go/internal/config"
	domainPayroll "github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/autopay-os/payroll-backend-go/internal/handler/http"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/database"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/jwt"
	"github.com/autopay-os/payroll-backend-go/internal/repository/postgresql"
	anomalyService "github.com/autopay-os/payroll-backend-go/internal/service/anomaly"
	payrollService "github.com/autopay-os/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-backend"),
		slog.String("env", cfg.App.Env),
	)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	anomalyRepo := postgresql.NewAnomalyRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	rules := domainPayroll.DefaultStatutoryRules()
	rules.PFRate = cfg.Payroll.PFRate
	rules.ESIRate = cfg.Payroll.ESIRate
	rules.ESICeilingGross = cfg.Payroll.ESICeilingGross
	rules.EmployerPFRate = cfg.Payroll.EmployerPFRate
	rules.EmployerESIRate = cfg.Payroll.EmployerESIRate

	anomalySvc := anomalyService.NewAnomalyService(anomalyRepo, payrollRepo, logger)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, attendanceRepo, anomalySvc, rules, logger)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	anomalyHandler := appHTTP.NewAnomalyHandler(anomalySvc)

	router := appHTTP.NewRouter(jwtService, payrollHandler, anomalyHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
