package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autopay-os/payroll-backend-go/internal/domain/anomaly"
	"github.com/autopay-os/payroll-backend-go/internal/domain/attendance"
	"github.com/autopay-os/payroll-backend-go/internal/domain/employee"
	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/database"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/jwt"
)

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	anomalySvc     anomaly.AnomalyService
	rules          payroll.StatutoryRules
	logger         *slog.Logger
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	anomalySvc anomaly.AnomalyService,
	rules payroll.StatutoryRules,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		anomalySvc:     anomalySvc,
		rules:          rules,
		logger:         logger,
	}
}

// ========== SALARY STRUCTURES ==========

func (s *PayrollServiceImpl) GetSalaryStructure(ctx context.Context, employeeID string) (payroll.SalaryStructureResponse, error) {
	structure, err := s.payrollRepo.GetSalaryStructure(ctx, employeeID)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	return mapToStructureResponse(structure), nil
}

func (s *PayrollServiceImpl) CreateSalaryStructure(ctx context.Context, req payroll.CreateSalaryStructureRequest) (payroll.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	companyID, _, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	// Verify the employee exists and belongs to the caller's company
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}
	if emp.CompanyID != companyID {
		return payroll.SalaryStructureResponse{}, employee.ErrEmployeeNotFound
	}

	enabled := func(flag *bool) bool {
		if flag == nil {
			return true
		}
		return *flag
	}

	structure := payroll.SalaryStructure{
		EmployeeID:       req.EmployeeID,
		Basic:            req.Basic,
		HRA:              req.HRA,
		Conveyance:       req.Conveyance,
		MedicalAllowance: req.MedicalAllowance,
		SpecialAllowance: req.SpecialAllowance,

		PFEnabled:          enabled(req.PFEnabled),
		ESIEnabled:         enabled(req.ESIEnabled),
		PTEnabled:          enabled(req.PTEnabled),
		TDSEnabled:         enabled(req.TDSEnabled),
		EmployerPFEnabled:  enabled(req.EmployerPFEnabled),
		EmployerESIEnabled: enabled(req.EmployerESIEnabled),
	}

	created, err := s.payrollRepo.CreateSalaryStructure(ctx, structure)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	return mapToStructureResponse(created), nil
}

func (s *PayrollServiceImpl) UpdateSalaryStructure(ctx context.Context, req payroll.UpdateSalaryStructureRequest) (payroll.SalaryStructureResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	updated, err := s.payrollRepo.UpdateSalaryStructure(ctx, req)
	if err != nil {
		return payroll.SalaryStructureResponse{}, err
	}

	return mapToStructureResponse(updated), nil
}

// ========== PERIOD PROCESSING ==========

// ProcessPeriod runs the pipeline for each requested employee
// independently: resolve structure, aggregate attendance, compute, upsert,
// screen. A missing structure or employee skips that one id; an upsert
// failure is reported against that id; neither stops the batch. Screening
// runs after the record is committed and its failures are only logged, so
// a persisted record is never rolled back by a screening error.
func (s *PayrollServiceImpl) ProcessPeriod(ctx context.Context, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	companyID, _, _, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ProcessPayrollResponse{}, err
	}

	period := payroll.Period{Month: req.Month, Year: req.Year}
	start, end := period.Range()

	resp := payroll.ProcessPayrollResponse{
		Records: []payroll.PayrollRecordResponse{},
		Skipped: []payroll.SkippedEmployee{},
	}

	for _, employeeID := range req.EmployeeIDs {
		skip := func(reason string) {
			resp.Skipped = append(resp.Skipped, payroll.SkippedEmployee{EmployeeID: employeeID, Reason: reason})
		}

		emp, err := s.employeeRepo.GetByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				skip("employee not found")
				continue
			}
			return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
		}
		if emp.CompanyID != companyID {
			skip("employee not found")
			continue
		}
		if !emp.IsActive {
			skip("employee is not active")
			continue
		}

		structure, err := s.payrollRepo.GetSalaryStructure(ctx, employeeID)
		if err != nil {
			if errors.Is(err, payroll.ErrSalaryStructureNotFound) {
				skip("salary structure not found")
				continue
			}
			return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to get salary structure for %s: %w", employeeID, err)
		}

		entries, err := s.attendanceRepo.ListByEmployeeRange(ctx, employeeID, start, end)
		if err != nil {
			return payroll.ProcessPayrollResponse{}, fmt.Errorf("failed to list attendance for %s: %w", employeeID, err)
		}

		record := ComputeRecord(structure, entries, period, s.rules)
		record.CompanyID = emp.CompanyID

		saved, err := s.payrollRepo.UpsertRecord(ctx, record)
		if err != nil {
			s.logger.Error("payroll record upsert failed",
				slog.String("employee_id", employeeID),
				slog.Int("month", req.Month),
				slog.Int("year", req.Year),
				slog.Any("error", err),
			)
			skip("failed to persist payroll record")
			continue
		}

		s.screen(ctx, companyID, saved)

		resp.Records = append(resp.Records, payroll.MapToRecordResponse(saved))
	}

	return resp, nil
}

// screen runs anomaly detection with log-and-continue semantics.
func (s *PayrollServiceImpl) screen(ctx context.Context, companyID string, record payroll.PayrollRecord) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("anomaly screening panicked",
				slog.String("payroll_record_id", record.ID),
				slog.Any("panic", p),
			)
		}
	}()

	if _, err := s.anomalySvc.Screen(ctx, companyID, record); err != nil {
		s.logger.Warn("anomaly screening failed",
			slog.String("payroll_record_id", record.ID),
			slog.String("employee_id", record.EmployeeID),
			slog.Any("error", err),
		)
	}
}

// ========== HISTORY ==========

func (s *PayrollServiceImpl) GetHistory(ctx context.Context, employeeID string) ([]payroll.PayrollRecordResponse, error) {
	records, err := s.payrollRepo.ListRecordsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, payroll.MapToRecordResponse(r))
	}
	return result, nil
}

// ========== HELPERS ==========

func mapToStructureResponse(s payroll.SalaryStructure) payroll.SalaryStructureResponse {
	return payroll.SalaryStructureResponse{
		ID:               s.ID,
		EmployeeID:       s.EmployeeID,
		Basic:            s.Basic,
		HRA:              s.HRA,
		Conveyance:       s.Conveyance,
		MedicalAllowance: s.MedicalAllowance,
		SpecialAllowance: s.SpecialAllowance,

		PFEnabled:          s.PFEnabled,
		ESIEnabled:         s.ESIEnabled,
		PTEnabled:          s.PTEnabled,
		TDSEnabled:         s.TDSEnabled,
		EmployerPFEnabled:  s.EmployerPFEnabled,
		EmployerESIEnabled: s.EmployerESIEnabled,
	}
}
