package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/autopay-os/payroll-backend-go/internal/domain/anomaly"
	"github.com/autopay-os/payroll-backend-go/internal/domain/attendance"
	"github.com/autopay-os/payroll-backend-go/internal/domain/employee"
	"github.com/autopay-os/payroll-backend-go/internal/domain/payroll"
	anomalyService "github.com/autopay-os/payroll-backend-go/internal/service/anomaly"
	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

// ========== FAKES ==========

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeAttendanceRepo struct {
	entries map[string][]attendance.Entry
}

func (f *fakeAttendanceRepo) ListByEmployeeRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Entry, error) {
	var result []attendance.Entry
	for _, e := range f.entries[employeeID] {
		if !e.Date.Before(start) && !e.Date.After(end) {
			result = append(result, e)
		}
	}
	return result, nil
}

type fakePayrollRepo struct {
	structures map[string]payroll.SalaryStructure
	records    map[string]payroll.PayrollRecord
	upsertErr  map[string]error
	upserts    int
	nextID     int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		structures: map[string]payroll.SalaryStructure{},
		records:    map[string]payroll.PayrollRecord{},
		upsertErr:  map[string]error{},
	}
}

func recordKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s/%d/%d", employeeID, month, year)
}

func (f *fakePayrollRepo) GetSalaryStructure(_ context.Context, employeeID string) (payroll.SalaryStructure, error) {
	s, ok := f.structures[employeeID]
	if !ok {
		return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
	}
	return s, nil
}

func (f *fakePayrollRepo) CreateSalaryStructure(_ context.Context, structure payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	if _, exists := f.structures[structure.EmployeeID]; exists {
		return payroll.SalaryStructure{}, payroll.ErrSalaryStructureExists
	}
	f.nextID++
	structure.ID = fmt.Sprintf("struct-%d", f.nextID)
	f.structures[structure.EmployeeID] = structure
	return structure, nil
}

func (f *fakePayrollRepo) UpdateSalaryStructure(_ context.Context, req payroll.UpdateSalaryStructureRequest) (payroll.SalaryStructure, error) {
	s, ok := f.structures[req.EmployeeID]
	if !ok {
		return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
	}
	if req.Basic != nil {
		s.Basic = *req.Basic
	}
	if req.PFEnabled != nil {
		s.PFEnabled = *req.PFEnabled
	}
	f.structures[req.EmployeeID] = s
	return s, nil
}

func (f *fakePayrollRepo) UpsertRecord(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.upserts++
	if err := f.upsertErr[record.EmployeeID]; err != nil {
		return payroll.PayrollRecord{}, err
	}

	key := recordKey(record.EmployeeID, record.PeriodMonth, record.PeriodYear)
	if existing, ok := f.records[key]; ok {
		record.ID = existing.ID
	} else {
		f.nextID++
		record.ID = fmt.Sprintf("rec-%d", f.nextID)
	}
	record.Status = payroll.PayrollStatusProcessed
	now := time.Now()
	record.ProcessedAt = &now
	f.records[key] = record
	return record, nil
}

func (f *fakePayrollRepo) GetRecordByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	r, ok := f.records[recordKey(employeeID, month, year)]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) GetLatestPriorRecord(_ context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	var best payroll.PayrollRecord
	found := false
	cursor := year*12 + month
	for _, r := range f.records {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.Status != payroll.PayrollStatusProcessed && r.Status != payroll.PayrollStatusPaid {
			continue
		}
		at := r.PeriodYear*12 + r.PeriodMonth
		if at >= cursor {
			continue
		}
		if !found || at > best.PeriodYear*12+best.PeriodMonth {
			best = r
			found = true
		}
	}
	if !found {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return best, nil
}

func (f *fakePayrollRepo) ListRecordsByEmployee(_ context.Context, employeeID string) ([]payroll.PayrollRecord, error) {
	var result []payroll.PayrollRecord
	for _, r := range f.records {
		if r.EmployeeID == employeeID {
			result = append(result, r)
		}
	}
	return result, nil
}

type fakeAnomalyRepo struct {
	created   []anomaly.Anomaly
	createErr error
	nextID    int
}

func (f *fakeAnomalyRepo) Create(_ context.Context, a anomaly.Anomaly) (anomaly.Anomaly, error) {
	if f.createErr != nil {
		return anomaly.Anomaly{}, f.createErr
	}
	f.nextID++
	a.ID = fmt.Sprintf("anom-%d", f.nextID)
	a.CreatedAt = time.Now()
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAnomalyRepo) GetByID(_ context.Context, id string, companyID string) (anomaly.Anomaly, error) {
	for _, a := range f.created {
		if a.ID == id && a.CompanyID == companyID {
			return a, nil
		}
	}
	return anomaly.Anomaly{}, anomaly.ErrAnomalyNotFound
}

func (f *fakeAnomalyRepo) ListByCompany(_ context.Context, companyID string, filter anomaly.AnomalyFilter) ([]anomaly.Anomaly, error) {
	var result []anomaly.Anomaly
	for _, a := range f.created {
		if a.CompanyID != companyID {
			continue
		}
		if filter.Resolved != nil && a.IsResolved != *filter.Resolved {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAnomalyRepo) Resolve(_ context.Context, companyID string, req anomaly.ResolveAnomalyRequest) error {
	for i, a := range f.created {
		if a.ID == req.ID && a.CompanyID == companyID {
			f.created[i].IsResolved = true
			f.created[i].ResolutionNotes = &req.Notes
			return nil
		}
	}
	return anomaly.ErrAnomalyNotFound
}

// failingAnomalyService always errors, to prove screening never fails a batch.
type failingAnomalyService struct{}

func (failingAnomalyService) Screen(context.Context, string, payroll.PayrollRecord) ([]anomaly.Anomaly, error) {
	return nil, errors.New("screening backend unavailable")
}
func (failingAnomalyService) List(context.Context, string, anomaly.AnomalyFilter) ([]anomaly.AnomalyResponse, error) {
	return nil, nil
}
func (failingAnomalyService) Resolve(context.Context, string, anomaly.ResolveAnomalyRequest) error {
	return nil
}

// ========== HARNESS ==========

type serviceFixture struct {
	svc          payroll.PayrollService
	payrollRepo  *fakePayrollRepo
	employeeRepo *fakeEmployeeRepo
	attRepo      *fakeAttendanceRepo
	anomalyRepo  *fakeAnomalyRepo
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &serviceFixture{
		payrollRepo:  newFakePayrollRepo(),
		employeeRepo: &fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		attRepo:      &fakeAttendanceRepo{entries: map[string][]attendance.Entry{}},
		anomalyRepo:  &fakeAnomalyRepo{},
	}

	anomalySvc := anomalyService.NewAnomalyService(f.anomalyRepo, f.payrollRepo, logger)
	f.svc = NewPayrollService(nil, f.payrollRepo, f.employeeRepo, f.attRepo, anomalySvc, payroll.DefaultStatutoryRules(), logger)
	return f
}

func (f *serviceFixture) addEmployee(id string, companyID string, active bool) {
	f.employeeRepo.employees[id] = employee.Employee{
		ID:        id,
		CompanyID: companyID,
		IsActive:  active,
	}
}

func (f *serviceFixture) addStructure(employeeID string, basic int64) {
	f.payrollRepo.structures[employeeID] = payroll.SalaryStructure{
		ID:         "struct-" + employeeID,
		EmployeeID: employeeID,
		Basic:      decimal.NewFromInt(basic),

		PFEnabled:          true,
		ESIEnabled:         true,
		PTEnabled:          true,
		TDSEnabled:         true,
		EmployerPFEnabled:  true,
		EmployerESIEnabled: true,
	}
}

func (f *serviceFixture) addFullAttendance(employeeID string, period payroll.Period) {
	for day := 1; day <= period.DaysInMonth(); day++ {
		f.attRepo.entries[employeeID] = append(f.attRepo.entries[employeeID], attendance.Entry{
			EmployeeID: employeeID,
			Date:       time.Date(period.Year, time.Month(period.Month), day, 0, 0, 0, 0, time.UTC),
			Status:     attendance.StatusPresent,
		})
	}
}

func authedContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	tok := jwxjwt.New()
	require.NoError(t, tok.Set("company_id", companyID))
	require.NoError(t, tok.Set("user_id", "user-1"))
	require.NoError(t, tok.Set("role", "hr_manager"))
	require.NoError(t, tok.Set("type", "access"))
	return jwtauth.NewContext(context.Background(), tok, nil)
}

// ========== TESTS ==========

func TestPayrollService_ProcessPeriod_Success(t *testing.T) {
	f := newServiceFixture(t)
	period := payroll.Period{Month: 4, Year: 2024}
	for _, id := range []string{"emp-1", "emp-2"} {
		f.addEmployee(id, testCompanyID, true)
		f.addStructure(id, 20000)
		f.addFullAttendance(id, period)
	}

	resp, err := f.svc.ProcessPeriod(authedContext(t, testCompanyID), payroll.ProcessPayrollRequest{
		Month:       4,
		Year:        2024,
		EmployeeIDs: []string{"emp-1", "emp-2"},
	})
	require.NoError(t, err)

	assert.Len(t, resp.Records, 2)
	assert.Empty(t, resp.Skipped)

	rec := resp.Records[0]
	assert.Equal(t, "processed", rec.Status)
	assert.NotNil(t, rec.ProcessedAt)
	assert.True(t, rec.GrossEarnings.Equal(decimal.NewFromInt(20000)), "gross: %s", rec.GrossEarnings)
	assert.True(t, rec.PFDeduction.Equal(decimal.NewFromInt(2400)), "pf: %s", rec.PFDeduction)
}

func TestPayrollService_ProcessPeriod_SkipsWithReasons(t *testing.T) {
	f := newServiceFixture(t)
	period := payroll.Period{Month: 4, Year: 2024}

	f.addEmployee("emp-ok", testCompanyID, true)
	f.addStructure("emp-ok", 20000)
	f.addFullAttendance("emp-ok", period)

	f.addEmployee("emp-no-structure", testCompanyID, true)
	f.addEmployee("emp-inactive", testCompanyID, false)
	f.addStructure("emp-inactive", 20000)
	f.addEmployee("emp-other-company", "company-2", true)
	f.addStructure("emp-other-company", 20000)

	resp, err := f.svc.ProcessPeriod(authedContext(t, testCompanyID), payroll.ProcessPayrollRequest{
		Month:       4,
		Year:        2024,
		EmployeeIDs: []string{"emp-ok", "emp-no-structure", "emp-inactive", "emp-other-company", "emp-unknown"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Records, 1)
	assert.Equal(t, "emp-ok", resp.Records[0].EmployeeID)

	reasons := map[string]string{}
	for _, s := range resp.Skipped {
		reasons[s.EmployeeID] = s.Reason
	}
	assert.Equal(t, map[string]string{
		"emp-no-structure":  "salary structure not found",
		"emp-inactive":      "employee is not active",
		"emp-other-company": "employee not found",
		"emp-unknown":       "employee not found",
	}, reasons)
}

func TestPayrollService_ProcessPeriod_UpsertFailureSkipsEmployee(t *testing.T) {
	f := newServiceFixture(t)
	period := payroll.Period{Month: 4, Year: 2024}
	for _, id := range []string{"emp-1", "emp-2"} {
		f.addEmployee(id, testCompanyID, true)
		f.addStructure(id, 20000)
		f.addFullAttendance(id, period)
	}
	f.payrollRepo.upsertErr["emp-1"] = errors.New("deadlock detected")

	resp, err := f.svc.ProcessPeriod(authedContext(t, testCompanyID), payroll.ProcessPayrollRequest{
		Month:       4,
		Year:        2024,
		EmployeeIDs: []string{"emp-1", "emp-2"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Records, 1)
	assert.Equal(t, "emp-2", resp.Records[0].EmployeeID)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "emp-1", resp.Skipped[0].EmployeeID)
	assert.Equal(t, "failed to persist payroll record", resp.Skipped[0].Reason)
}

func TestPayrollService_ProcessPeriod_Idempotent(t *testing.T) {
	f := newServiceFixture(t)
	period := payroll.Period{Month: 4, Year: 2024}
	f.addEmployee("emp-1", testCompanyID, true)
	f.addStructure("emp-1", 20000)
	f.addFullAttendance("emp-1", period)

	req := payroll.ProcessPayrollRequest{Month: 4, Year: 2024, EmployeeIDs: []string{"emp-1"}}
	ctx := authedContext(t, testCompanyID)

	first, err := f.svc.ProcessPeriod(ctx, req)
	require.NoError(t, err)
	second, err := f.svc.ProcessPeriod(ctx, req)
	require.NoError(t, err)

	// Reprocessing overwrites the same row instead of inserting a second one
	assert.Len(t, f.payrollRepo.records, 1)
	assert.Equal(t, first.Records[0].ID, second.Records[0].ID)
	assert.True(t, first.Records[0].NetPay.Equal(second.Records[0].NetPay))
}

func TestPayrollService_ProcessPeriod_ValidatesRequest(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.ProcessPeriod(authedContext(t, testCompanyID), payroll.ProcessPayrollRequest{
		Month:       13,
		Year:        1999,
		EmployeeIDs: nil,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month")
	assert.Contains(t, err.Error(), "year")
	assert.Contains(t, err.Error(), "employee_ids")
}

func TestPayrollService_ProcessPeriod_ScreeningFailureDoesNotFailBatch(t *testing.T) {
	f := newServiceFixture(t)
	period := payroll.Period{Month: 4, Year: 2024}
	f.addEmployee("emp-1", testCompanyID, true)
	f.addStructure("emp-1", 20000)
	f.addFullAttendance("emp-1", period)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPayrollService(nil, f.payrollRepo, f.employeeRepo, f.attRepo, failingAnomalyService{}, payroll.DefaultStatutoryRules(), logger)

	resp, err := svc.ProcessPeriod(authedContext(t, testCompanyID), payroll.ProcessPayrollRequest{
		Month:       4,
		Year:        2024,
		EmployeeIDs: []string{"emp-1"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Records, 1)
	assert.Len(t, f.payrollRepo.records, 1)
}

func TestPayrollService_ProcessPeriod_FlagsSalarySpike(t *testing.T) {
	f := newServiceFixture(t)
	period := payroll.Period{Month: 4, Year: 2024}
	f.addEmployee("emp-1", testCompanyID, true)
	f.addStructure("emp-1", 40000)
	f.addFullAttendance("emp-1", period)

	// March was processed at a much lower gross
	f.payrollRepo.records[recordKey("emp-1", 3, 2024)] = payroll.PayrollRecord{
		ID:            "rec-march",
		EmployeeID:    "emp-1",
		PeriodMonth:   3,
		PeriodYear:    2024,
		GrossEarnings: decimal.NewFromInt(20000),
		Status:        payroll.PayrollStatusPaid,
	}

	resp, err := f.svc.ProcessPeriod(authedContext(t, testCompanyID), payroll.ProcessPayrollRequest{
		Month:       4,
		Year:        2024,
		EmployeeIDs: []string{"emp-1"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)

	// 40000 vs 20000 is a 100% jump
	require.Len(t, f.anomalyRepo.created, 1)
	flagged := f.anomalyRepo.created[0]
	assert.Equal(t, anomaly.TypeSalarySpike, flagged.Type)
	assert.Equal(t, anomaly.SeverityHigh, flagged.Severity)
	assert.Equal(t, testCompanyID, flagged.CompanyID)
	require.NotNil(t, flagged.PayrollRecordID)
	assert.Equal(t, resp.Records[0].ID, *flagged.PayrollRecordID)
}

func TestPayrollService_CreateSalaryStructure(t *testing.T) {
	f := newServiceFixture(t)
	f.addEmployee("emp-1", testCompanyID, true)
	ctx := authedContext(t, testCompanyID)

	resp, err := f.svc.CreateSalaryStructure(ctx, payroll.CreateSalaryStructureRequest{
		EmployeeID: "emp-1",
		Basic:      decimal.NewFromInt(20000),
		HRA:        decimal.NewFromInt(8000),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.PFEnabled, "toggles default to enabled")
	assert.True(t, resp.TDSEnabled)

	// Second create for the same employee conflicts
	_, err = f.svc.CreateSalaryStructure(ctx, payroll.CreateSalaryStructureRequest{
		EmployeeID: "emp-1",
		Basic:      decimal.NewFromInt(25000),
	})
	assert.ErrorIs(t, err, payroll.ErrSalaryStructureExists)
}

func TestPayrollService_CreateSalaryStructure_RejectsOtherCompany(t *testing.T) {
	f := newServiceFixture(t)
	f.addEmployee("emp-1", "company-2", true)

	_, err := f.svc.CreateSalaryStructure(authedContext(t, testCompanyID), payroll.CreateSalaryStructureRequest{
		EmployeeID: "emp-1",
		Basic:      decimal.NewFromInt(20000),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollService_CreateSalaryStructure_RejectsNegativeAmounts(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CreateSalaryStructure(authedContext(t, testCompanyID), payroll.CreateSalaryStructureRequest{
		EmployeeID: "emp-1",
		Basic:      decimal.NewFromInt(-1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basic")
}

func TestPayrollService_GetHistory(t *testing.T) {
	f := newServiceFixture(t)
	f.payrollRepo.records[recordKey("emp-1", 3, 2024)] = payroll.PayrollRecord{
		ID:          "rec-1",
		EmployeeID:  "emp-1",
		PeriodMonth: 3,
		PeriodYear:  2024,
		Status:      payroll.PayrollStatusProcessed,
	}

	history, err := f.svc.GetHistory(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "rec-1", history[0].ID)

	empty, err := f.svc.GetHistory(context.Background(), "emp-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
