package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/costreports/costreports/internal/domain/analysis"
	"github.com/costreports/costreports/internal/domain/entity"
	"github.com/costreports/costreports/internal/shared/types"
)

type fakeCostRepo struct {
	profiles []string
	records  []entity.CostRecord
	regions  []entity.RegionCostRecord
	budgets  []entity.BudgetInfo
	costErr  error

	monthsAsked []string
}

func (f *fakeCostRepo) GetAWSProfiles() []string { return f.profiles }

func (f *fakeCostRepo) GetCallerIdentity(ctx context.Context, profile string) (entity.CallerIdentity, error) {
	return entity.CallerIdentity{Account: "123456789012", Arn: "arn:aws:iam::123456789012:user/test"}, nil
}

func (f *fakeCostRepo) GetMonthlyCosts(ctx context.Context, profile string, months []string) ([]entity.CostRecord, []entity.RegionCostRecord, error) {
	f.monthsAsked = append(f.monthsAsked, months...)
	if f.costErr != nil {
		return nil, nil, f.costErr
	}

	asked := make(map[string]bool)
	for _, m := range months {
		asked[m] = true
	}
	var records []entity.CostRecord
	for _, r := range f.records {
		if asked[r.Month] {
			records = append(records, r)
		}
	}
	var regions []entity.RegionCostRecord
	for _, r := range f.regions {
		if asked[r.Month] {
			regions = append(regions, r)
		}
	}
	return records, regions, nil
}

func (f *fakeCostRepo) GetBudgets(ctx context.Context, profile string) ([]entity.BudgetInfo, error) {
	return f.budgets, nil
}

type fakeExportRepo struct {
	csvName, jsonName, pdfName string
}

func (f *fakeExportRepo) ExportToCSV(result *entity.AnalysisResult, filename, outputDir string) (string, error) {
	f.csvName = filename
	return filename + ".csv", nil
}

func (f *fakeExportRepo) ExportToJSON(result *entity.AnalysisResult, filename, outputDir string) (string, error) {
	f.jsonName = filename
	return filename + ".json", nil
}

func (f *fakeExportRepo) ExportToPDF(result *entity.AnalysisResult, filename, outputDir string) (string, error) {
	f.pdfName = filename
	return filename + ".pdf", nil
}

type fakeConfigRepo struct {
	cfg *types.Config
	err error
}

func (f *fakeConfigRepo) LoadConfigFile(path string) (*types.Config, error) { return f.cfg, f.err }

type noopStatus struct{}

func (noopStatus) Update(string) {}
func (noopStatus) Stop()         {}

type noopTable struct{}

func (noopTable) AddColumn(string, ...interface{}) {}
func (noopTable) AddRow(...interface{})            {}
func (noopTable) Render() string                   { return "" }

type fakeProgress struct {
	ticks *int
}

func (p fakeProgress) Increment() { *p.ticks++ }
func (p fakeProgress) Stop()      {}

type fakeConsole struct {
	warnings      []string
	progressTotal int
	progressTicks int
}

func (f *fakeConsole) Print(a ...interface{})                  {}
func (f *fakeConsole) Printf(format string, a ...interface{})  {}
func (f *fakeConsole) Println(a ...interface{})                {}
func (f *fakeConsole) LogInfo(format string, a ...interface{}) {}
func (f *fakeConsole) LogWarning(format string, a ...interface{}) {
	f.warnings = append(f.warnings, format)
}
func (f *fakeConsole) LogError(format string, a ...interface{})       {}
func (f *fakeConsole) LogSuccess(format string, a ...interface{})     {}
func (f *fakeConsole) Status(message string) types.StatusHandle     { return noopStatus{} }
func (f *fakeConsole) CreateTable() types.TableInterface            { return noopTable{} }
func (f *fakeConsole) DisplayTrendBars(monthly []types.MonthlyCost) {}
func (f *fakeConsole) ProgressWithTotal(total int) types.ProgressHandle {
	f.progressTotal = total
	return fakeProgress{ticks: &f.progressTicks}
}

func newTestUseCase(cost *fakeCostRepo, export *fakeExportRepo, config *fakeConfigRepo) *ReportUseCase {
	return NewReportUseCase(cost, export, config, &fakeConsole{}, zap.NewNop())
}

func TestValidateMonths(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{}, &fakeExportRepo{}, &fakeConfigRepo{})

	months, err := uc.ValidateMonths([]string{"2025-10", "2025-09"})
	if err != nil {
		t.Fatalf("ValidateMonths: %v", err)
	}
	if months[0] != "2025-09" || months[1] != "2025-10" {
		t.Fatalf("months must sort ascending, got %v", months)
	}
}

func TestValidateMonths_Deduplicates(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{}, &fakeExportRepo{}, &fakeConfigRepo{})

	months, err := uc.ValidateMonths([]string{"2025-09", "2025-09", "2025-10"})
	if err != nil {
		t.Fatalf("ValidateMonths: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %v", months)
	}
}

func TestValidateMonths_Bounds(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{}, &fakeExportRepo{}, &fakeConfigRepo{})

	if _, err := uc.ValidateMonths([]string{"2025-09"}); !errors.Is(err, types.ErrTooFewMonths) {
		t.Errorf("single month: %v", err)
	}
	seven := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06", "2025-07"}
	if _, err := uc.ValidateMonths(seven); !errors.Is(err, types.ErrTooManyMonths) {
		t.Errorf("seven months: %v", err)
	}
	if _, err := uc.ValidateMonths([]string{"Sep-2025", "2025-10"}); !errors.Is(err, types.ErrInvalidMonth) {
		t.Errorf("bad format: %v", err)
	}
}

func TestResolveProfile(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{profiles: []string{"default", "prod"}}, &fakeExportRepo{}, &fakeConfigRepo{})

	profile, err := uc.ResolveProfile("prod")
	if err != nil || profile != "prod" {
		t.Fatalf("explicit profile: %q, %v", profile, err)
	}
	profile, err = uc.ResolveProfile("")
	if err != nil || profile != "default" {
		t.Fatalf("default profile: %q, %v", profile, err)
	}
	if _, err := uc.ResolveProfile("staging"); !errors.Is(err, types.ErrProfileNotFound) {
		t.Fatalf("missing profile: %v", err)
	}
}

func TestResolveProfile_NoDefault(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{profiles: []string{"prod"}}, &fakeExportRepo{}, &fakeConfigRepo{})

	profile, err := uc.ResolveProfile("")
	if err != nil || profile != "prod" {
		t.Fatalf("got %q, %v", profile, err)
	}
}

func TestBuildReportName(t *testing.T) {
	got := BuildReportName("Acme", []string{"2025-09", "2025-10"})
	if got != "Acme-September-October-CostReport" {
		t.Fatalf("got %q", got)
	}
	got = BuildReportName("Acme Corp", []string{"2025-09", "2025-10"})
	if got != "Acme-Corp-September-October-CostReport" {
		t.Fatalf("spaces must be hyphenated, got %q", got)
	}
	got = BuildReportName("Acme", []string{"not-a-month"})
	if got != "Acme-not-a-month-CostReport" {
		t.Fatalf("unparseable months must pass through, got %q", got)
	}
}

func TestPolicyFromString(t *testing.T) {
	if PolicyFromString("exact-zero") != analysis.PolicyExactZero {
		t.Error("exact-zero must map to PolicyExactZero")
	}
	if PolicyFromString("EXACT-ZERO") != analysis.PolicyExactZero {
		t.Error("policy names are case-insensitive")
	}
	if PolicyFromString("threshold") != analysis.PolicyThreshold {
		t.Error("threshold must map to PolicyThreshold")
	}
	if PolicyFromString("") != analysis.PolicyThreshold {
		t.Error("empty policy must default to PolicyThreshold")
	}
}

func TestApplyConfigFile_FlagsWin(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{}, &fakeExportRepo{}, &fakeConfigRepo{cfg: &types.Config{
		ClientName: "FromFile",
		Months:     []string{"2025-01", "2025-02"},
		Profile:    "fileprofile",
		Dir:        "/from/file",
	}})

	args := &types.CLIArgs{
		ConfigFile: "config.yaml",
		ClientName: "FromFlag",
	}
	if err := uc.ApplyConfigFile(args); err != nil {
		t.Fatalf("ApplyConfigFile: %v", err)
	}
	if args.ClientName != "FromFlag" {
		t.Errorf("flag must win, got %q", args.ClientName)
	}
	if len(args.Months) != 2 || args.Profile != "fileprofile" || args.Dir != "/from/file" {
		t.Errorf("file values must fill gaps: %+v", args)
	}
}

func TestRunReport_EndToEnd(t *testing.T) {
	cost := &fakeCostRepo{
		profiles: []string{"default"},
		records: []entity.CostRecord{
			{Service: "Amazon Elastic Compute Cloud - Compute", UsageType: "BoxUsage:m5.large", Month: "2025-09", Cost: 100, Usage: 720},
			{Service: "Amazon Elastic Compute Cloud - Compute", UsageType: "BoxUsage:m5.large", Month: "2025-10", Cost: 150, Usage: 1080},
		},
		regions: []entity.RegionCostRecord{
			{Region: "us-east-1", Month: "2025-09", Cost: 100},
			{Region: "us-east-1", Month: "2025-10", Cost: 150},
		},
	}
	export := &fakeExportRepo{}
	uc := newTestUseCase(cost, export, &fakeConfigRepo{})

	args := &types.CLIArgs{
		ClientName: "Acme",
		Months:     []string{"2025-10", "2025-09"},
		ReportType: []string{"csv", "json"},
	}
	if err := uc.RunReport(context.Background(), args); err != nil {
		t.Fatalf("RunReport: %v", err)
	}

	if len(cost.monthsAsked) != 2 || cost.monthsAsked[0] != "2025-09" || cost.monthsAsked[1] != "2025-10" {
		t.Fatalf("months not normalized before fetch: %v", cost.monthsAsked)
	}
	if export.csvName != "Acme-September-October-CostReport" {
		t.Fatalf("csv report name = %q", export.csvName)
	}
	if export.jsonName != export.csvName {
		t.Fatalf("json report name = %q", export.jsonName)
	}
	if export.pdfName != "" {
		t.Fatal("pdf must not be exported when not requested")
	}
}

func TestRunReport_FetchProgressPerMonth(t *testing.T) {
	cost := &fakeCostRepo{
		profiles: []string{"default"},
		records: []entity.CostRecord{
			{Service: "EC2", UsageType: "BoxUsage:m5.large", Month: "2025-08", Cost: 90, Usage: 744},
			{Service: "EC2", UsageType: "BoxUsage:m5.large", Month: "2025-09", Cost: 100, Usage: 720},
			{Service: "EC2", UsageType: "BoxUsage:m5.large", Month: "2025-10", Cost: 150, Usage: 1080},
		},
	}
	con := &fakeConsole{}
	uc := NewReportUseCase(cost, &fakeExportRepo{}, &fakeConfigRepo{}, con, zap.NewNop())

	args := &types.CLIArgs{
		ClientName: "Acme",
		Months:     []string{"2025-08", "2025-09", "2025-10"},
	}
	if err := uc.RunReport(context.Background(), args); err != nil {
		t.Fatalf("RunReport: %v", err)
	}

	if con.progressTotal != 3 {
		t.Fatalf("progress total = %d, want one step per month", con.progressTotal)
	}
	if con.progressTicks != 3 {
		t.Fatalf("progress ticks = %d, want 3", con.progressTicks)
	}
	if len(cost.monthsAsked) != 3 || cost.monthsAsked[1] != "2025-09" {
		t.Fatalf("fetch must walk months one at a time: %v", cost.monthsAsked)
	}
}

func TestRunReport_MissingClientName(t *testing.T) {
	uc := newTestUseCase(&fakeCostRepo{profiles: []string{"default"}}, &fakeExportRepo{}, &fakeConfigRepo{})

	err := uc.RunReport(context.Background(), &types.CLIArgs{Months: []string{"2025-09", "2025-10"}})
	if !errors.Is(err, types.ErrClientNameNeeded) {
		t.Fatalf("got %v", err)
	}
}

func TestRunReport_FetchErrorPropagates(t *testing.T) {
	cost := &fakeCostRepo{
		profiles: []string{"default"},
		costErr:  errors.New("throttled"),
	}
	uc := newTestUseCase(cost, &fakeExportRepo{}, &fakeConfigRepo{})

	err := uc.RunReport(context.Background(), &types.CLIArgs{
		ClientName: "Acme",
		Months:     []string{"2025-09", "2025-10"},
	})
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("got %v", err)
	}
}
