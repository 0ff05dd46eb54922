package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	"github.com/autopay-os/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SALARY STRUCTURES ==========

const salaryStructureColumns = `id, employee_id, basic, hra, conveyance, medical_allowance, special_allowance,
	pf_enabled, esi_enabled, pt_enabled, tds_enabled, employer_pf_enabled, employer_esi_enabled,
	created_at, updated_at`

func scanSalaryStructure(row pgx.Row) (payroll.SalaryStructure, error) {
	var s payroll.SalaryStructure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Basic, &s.HRA, &s.Conveyance, &s.MedicalAllowance, &s.SpecialAllowance,
		&s.PFEnabled, &s.ESIEnabled, &s.PTEnabled, &s.TDSEnabled, &s.EmployerPFEnabled, &s.EmployerESIEnabled,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *payrollRepository) GetSalaryStructure(ctx context.Context, employeeID string) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM salary_structures
		WHERE employee_id = $1
	`, salaryStructureColumns)

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) CreateSalaryStructure(ctx context.Context, structure payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO salary_structures (
			employee_id, basic, hra, conveyance, medical_allowance, special_allowance,
			pf_enabled, esi_enabled, pt_enabled, tds_enabled, employer_pf_enabled, employer_esi_enabled
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, salaryStructureColumns)

	s, err := scanSalaryStructure(q.QueryRow(ctx, query,
		structure.EmployeeID, structure.Basic, structure.HRA, structure.Conveyance,
		structure.MedicalAllowance, structure.SpecialAllowance,
		structure.PFEnabled, structure.ESIEnabled, structure.PTEnabled, structure.TDSEnabled,
		structure.EmployerPFEnabled, structure.EmployerESIEnabled,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_salary_structure_employee") {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureExists
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpdateSalaryStructure(ctx context.Context, req payroll.UpdateSalaryStructureRequest) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.EmployeeID}
	argIdx := 2

	addSet := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Basic != nil {
		addSet("basic", *req.Basic)
	}
	if req.HRA != nil {
		addSet("hra", *req.HRA)
	}
	if req.Conveyance != nil {
		addSet("conveyance", *req.Conveyance)
	}
	if req.MedicalAllowance != nil {
		addSet("medical_allowance", *req.MedicalAllowance)
	}
	if req.SpecialAllowance != nil {
		addSet("special_allowance", *req.SpecialAllowance)
	}
	if req.PFEnabled != nil {
		addSet("pf_enabled", *req.PFEnabled)
	}
	if req.ESIEnabled != nil {
		addSet("esi_enabled", *req.ESIEnabled)
	}
	if req.PTEnabled != nil {
		addSet("pt_enabled", *req.PTEnabled)
	}
	if req.TDSEnabled != nil {
		addSet("tds_enabled", *req.TDSEnabled)
	}
	if req.EmployerPFEnabled != nil {
		addSet("employer_pf_enabled", *req.EmployerPFEnabled)
	}
	if req.EmployerESIEnabled != nil {
		addSet("employer_esi_enabled", *req.EmployerESIEnabled)
	}

	query := fmt.Sprintf(`
		UPDATE salary_structures
		SET %s
		WHERE employee_id = $1
		RETURNING %s
	`, strings.Join(setParts, ", "), salaryStructureColumns)

	s, err := scanSalaryStructure(q.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to update salary structure: %w", err)
	}

	return s, nil
}

// ========== PAYROLL RECORDS ==========

const payrollRecordColumns = `id, employee_id, company_id, period_month, period_year,
	paid_days, absent_days,
	basic_earned, hra_earned, conveyance_earned, medical_earned, special_earned,
	gross_earnings,
	pf_deduction, esi_deduction, pt_deduction, income_tax_deduction,
	employer_pf_contribution, employer_esi_contribution,
	total_deductions, net_pay,
	status, processed_at, paid_at, created_at, updated_at`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.PaidDays, &rec.AbsentDays,
		&rec.BasicEarned, &rec.HRAEarned, &rec.ConveyanceEarned, &rec.MedicalEarned, &rec.SpecialEarned,
		&rec.GrossEarnings,
		&rec.PFDeduction, &rec.ESIDeduction, &rec.PTDeduction, &rec.IncomeTaxDeduction,
		&rec.EmployerPFContribution, &rec.EmployerESIContribution,
		&rec.TotalDeductions, &rec.NetPay,
		&rec.Status, &rec.ProcessedAt, &rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// UpsertRecord writes the full computed record for its (employee, period)
// key in one statement: the ON CONFLICT arm makes concurrent runs for the
// same key converge on a single row, and re-runs overwrite every computed
// column in place with a fresh processed timestamp.
func (r *payrollRepository) UpsertRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO payroll_records (
			employee_id, company_id, period_month, period_year,
			paid_days, absent_days,
			basic_earned, hra_earned, conveyance_earned, medical_earned, special_earned,
			gross_earnings,
			pf_deduction, esi_deduction, pt_deduction, income_tax_deduction,
			employer_pf_contribution, employer_esi_contribution,
			total_deductions, net_pay,
			status, processed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, 'processed', NOW())
		ON CONFLICT (employee_id, period_month, period_year) DO UPDATE SET
			paid_days = EXCLUDED.paid_days,
			absent_days = EXCLUDED.absent_days,
			basic_earned = EXCLUDED.basic_earned,
			hra_earned = EXCLUDED.hra_earned,
			conveyance_earned = EXCLUDED.conveyance_earned,
			medical_earned = EXCLUDED.medical_earned,
			special_earned = EXCLUDED.special_earned,
			gross_earnings = EXCLUDED.gross_earnings,
			pf_deduction = EXCLUDED.pf_deduction,
			esi_deduction = EXCLUDED.esi_deduction,
			pt_deduction = EXCLUDED.pt_deduction,
			income_tax_deduction = EXCLUDED.income_tax_deduction,
			employer_pf_contribution = EXCLUDED.employer_pf_contribution,
			employer_esi_contribution = EXCLUDED.employer_esi_contribution,
			total_deductions = EXCLUDED.total_deductions,
			net_pay = EXCLUDED.net_pay,
			status = 'processed',
			processed_at = NOW(),
			updated_at = NOW()
		RETURNING %s
	`, payrollRecordColumns)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.CompanyID, record.PeriodMonth, record.PeriodYear,
		record.PaidDays, record.AbsentDays,
		record.BasicEarned, record.HRAEarned, record.ConveyanceEarned, record.MedicalEarned, record.SpecialEarned,
		record.GrossEarnings,
		record.PFDeduction, record.ESIDeduction, record.PTDeduction, record.IncomeTaxDeduction,
		record.EmployerPFContribution, record.EmployerESIContribution,
		record.TotalDeductions, record.NetPay,
	))
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
	`, payrollRecordColumns)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetLatestPriorRecord(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records
		WHERE employee_id = $1
			AND status IN ('processed', 'paid')
			AND (period_year * 12 + period_month) < ($3 * 12 + $2)
		ORDER BY period_year DESC, period_month DESC
		LIMIT 1
	`, payrollRecordColumns)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get prior payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) ListRecordsByEmployee(ctx context.Context, employeeID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM payroll_records
		WHERE employee_id = $1
		ORDER BY period_year DESC, period_month DESC
	`, payrollRecordColumns)

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}
