package anomaly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/autopay-os/payroll-backend-go/internal/domain/anomaly"
	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Fixed compliance thresholds. Unlike the statutory rate table these are
// detection heuristics, not filing rules, so they live with the screens.
var (
	spikeThresholdPercent = decimal.NewFromInt(20)
	pfWageFloor           = decimal.NewFromInt(15000)
	highIncomeFloor       = decimal.NewFromInt(100000)
	minTDSRate            = decimal.NewFromFloat(0.05)
	hundred               = decimal.NewFromInt(100)
)

type AnomalyServiceImpl struct {
	anomalyRepo anomaly.AnomalyRepository
	payrollRepo payroll.PayrollRepository
	logger      *slog.Logger
}

func NewAnomalyService(
	anomalyRepo anomaly.AnomalyRepository,
	payrollRepo payroll.PayrollRepository,
	logger *slog.Logger,
) anomaly.AnomalyService {
	return &AnomalyServiceImpl{
		anomalyRepo: anomalyRepo,
		payrollRepo: payrollRepo,
		logger:      logger,
	}
}

// Screen evaluates each check independently; a record can yield up to one
// finding per check in a single pass. Findings are persisted one by one
// and are never deduplicated against prior periods: a condition that
// persists produces a fresh finding every period it recurs.
func (s *AnomalyServiceImpl) Screen(ctx context.Context, companyID string, record payroll.PayrollRecord) ([]anomaly.Anomaly, error) {
	var findings []anomaly.Anomaly

	spike, err := s.checkSalarySpike(ctx, record)
	if err != nil {
		return nil, err
	}
	if spike != nil {
		findings = append(findings, *spike)
	}

	if f := checkPFCompliance(record); f != nil {
		findings = append(findings, *f)
	}
	if f := checkTaxAnomaly(record); f != nil {
		findings = append(findings, *f)
	}

	saved := make([]anomaly.Anomaly, 0, len(findings))
	for _, f := range findings {
		f.CompanyID = companyID
		f.EmployeeID = &record.EmployeeID
		f.PayrollRecordID = &record.ID

		created, err := s.anomalyRepo.Create(ctx, f)
		if err != nil {
			// Keep persisting the remaining findings; they are independent.
			s.logger.Warn("failed to persist anomaly finding",
				slog.String("type", string(f.Type)),
				slog.String("payroll_record_id", record.ID),
				slog.Any("error", err),
			)
			continue
		}
		saved = append(saved, created)
	}

	return saved, nil
}

// checkSalarySpike compares gross earnings against the most recent prior
// processed-or-paid record; a percentage increase above the threshold is
// flagged with both values and the delta.
func (s *AnomalyServiceImpl) checkSalarySpike(ctx context.Context, record payroll.PayrollRecord) (*anomaly.Anomaly, error) {
	prior, err := s.payrollRepo.GetLatestPriorRecord(ctx, record.EmployeeID, record.PeriodMonth, record.PeriodYear)
	if err != nil {
		if errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !prior.GrossEarnings.IsPositive() {
		return nil, nil
	}

	diffPercent := record.GrossEarnings.Sub(prior.GrossEarnings).
		Div(prior.GrossEarnings).Mul(hundred)
	if diffPercent.LessThanOrEqual(spikeThresholdPercent) {
		return nil, nil
	}

	return &anomaly.Anomaly{
		Type:        anomaly.TypeSalarySpike,
		Severity:    anomaly.SeverityHigh,
		Title:       "Significant salary spike detected",
		Description: fmt.Sprintf("Gross pay increased by %s%% compared to the last pay cycle.", diffPercent.Round(2)),
		Evidence: map[string]decimal.Decimal{
			"previous_gross": prior.GrossEarnings,
			"current_gross":  record.GrossEarnings,
			"diff_percent":   diffPercent.Round(2),
		},
	}, nil
}

// checkPFCompliance flags employees earning above the PF wage floor with
// no PF deduction, which usually means a mis-configured salary structure.
func checkPFCompliance(record payroll.PayrollRecord) *anomaly.Anomaly {
	if record.GrossEarnings.LessThanOrEqual(pfWageFloor) || record.PFDeduction.IsPositive() {
		return nil
	}

	return &anomaly.Anomaly{
		Type:        anomaly.TypeComplianceMismatch,
		Severity:    anomaly.SeverityMedium,
		Title:       "Potential PF compliance issue",
		Description: "Gross earnings exceed the PF wage floor but no PF deduction was found.",
		Evidence: map[string]decimal.Decimal{
			"gross": record.GrossEarnings,
		},
	}
}

// checkTaxAnomaly flags high earners whose income-tax withholding is under
// the minimum expected rate, including the zero/absent case.
func checkTaxAnomaly(record payroll.PayrollRecord) *anomaly.Anomaly {
	if record.GrossEarnings.LessThanOrEqual(highIncomeFloor) {
		return nil
	}
	if record.IncomeTaxDeduction.GreaterThanOrEqual(record.GrossEarnings.Mul(minTDSRate)) {
		return nil
	}

	return &anomaly.Anomaly{
		Type:        anomaly.TypeTaxAnomaly,
		Severity:    anomaly.SeverityHigh,
		Title:       "Abnormally low TDS deduction",
		Description: "High salary detected with less than 5% income-tax withholding.",
		Evidence: map[string]decimal.Decimal{
			"gross": record.GrossEarnings,
			"tds":   record.IncomeTaxDeduction,
		},
	}
}

// ========== LISTING & RESOLUTION ==========

func (s *AnomalyServiceImpl) List(ctx context.Context, companyID string, filter anomaly.AnomalyFilter) ([]anomaly.AnomalyResponse, error) {
	anomalies, err := s.anomalyRepo.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	result := make([]anomaly.AnomalyResponse, 0, len(anomalies))
	for _, a := range anomalies {
		result = append(result, anomaly.MapToResponse(a))
	}
	return result, nil
}

func (s *AnomalyServiceImpl) Resolve(ctx context.Context, companyID string, req anomaly.ResolveAnomalyRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := s.anomalyRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return err
	}
	if existing.IsResolved {
		return anomaly.ErrAnomalyAlreadyResolved
	}

	return s.anomalyRepo.Resolve(ctx, companyID, req)
}
