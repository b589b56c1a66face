package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/costreports/costreports/internal/domain/analysis"
	"github.com/costreports/costreports/internal/domain/entity"
	"github.com/costreports/costreports/internal/domain/repository"
	"github.com/costreports/costreports/internal/shared/types"
)

// Comparison window bounds. Two months is the smallest meaningful
// comparison; past six the report stops being readable.
const (
	minMonths = 2
	maxMonths = 6
)

// ReportUseCase drives a full cost report run: validation, fetching,
// analysis, display and export.
type ReportUseCase struct {
	costRepo   repository.CostRepository
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
	logger     *zap.Logger
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	costRepo repository.CostRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	console types.ConsoleInterface,
	logger *zap.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		costRepo:   costRepo,
		exportRepo: exportRepo,
		configRepo: configRepo,
		console:    console,
		logger:     logger,
	}
}

// ApplyConfigFile merges a configuration file into the CLI args. Values
// set on the command line win over the file.
func (uc *ReportUseCase) ApplyConfigFile(args *types.CLIArgs) error {
	if args.ConfigFile == "" {
		return nil
	}

	cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}

	if args.ClientName == "" {
		args.ClientName = cfg.ClientName
	}
	if len(args.Months) == 0 {
		args.Months = cfg.Months
	}
	if args.Profile == "" {
		args.Profile = cfg.Profile
	}
	if args.Region == "" {
		args.Region = cfg.Region
	}
	if args.ReportName == "" {
		args.ReportName = cfg.ReportName
	}
	if len(args.ReportType) == 0 {
		args.ReportType = cfg.ReportType
	}
	if args.Dir == "" {
		args.Dir = cfg.Dir
	}
	if args.Policy == "" {
		args.Policy = cfg.Policy
	}
	if cfg.Trend {
		args.Trend = true
	}
	return nil
}

// ValidateMonths normalizes the requested months: YYYY-MM format,
// deduplicated, ascending, between two and six entries.
func (uc *ReportUseCase) ValidateMonths(months []string) ([]string, error) {
	seen := make(map[string]bool)
	var normalized []string
	for _, month := range months {
		month = strings.TrimSpace(month)
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidMonth, month)
		}
		if !seen[month] {
			seen[month] = true
			normalized = append(normalized, month)
		}
	}

	if len(normalized) < minMonths {
		return nil, types.ErrTooFewMonths
	}
	if len(normalized) > maxMonths {
		return nil, types.ErrTooManyMonths
	}

	sort.Strings(normalized)
	return normalized, nil
}

// ResolveProfile picks the AWS profile to run with. An explicit profile
// must exist; otherwise "default" is preferred, falling back to the only
// configured profile.
func (uc *ReportUseCase) ResolveProfile(profile string) (string, error) {
	available := uc.costRepo.GetAWSProfiles()
	if len(available) == 0 {
		return "", types.ErrNoProfilesFound
	}

	if profile != "" {
		for _, p := range available {
			if p == profile {
				return profile, nil
			}
		}
		return "", fmt.Errorf("%w: %q", types.ErrProfileNotFound, profile)
	}

	for _, p := range available {
		if p == "default" {
			return "default", nil
		}
	}
	uc.console.LogWarning("No default profile found. Using profile '%s'.", available[0])
	return available[0], nil
}

// BuildReportName derives the export file base name from the client and
// month names, e.g. "Acme-September-October-CostReport". Spaces in the
// client name become hyphens so the whole name stays one shell token.
func BuildReportName(clientName string, months []string) string {
	parts := []string{strings.ReplaceAll(clientName, " ", "-")}
	for _, month := range months {
		parts = append(parts, monthShortName(month))
	}
	parts = append(parts, "CostReport")
	return strings.Join(parts, "-")
}

// monthShortName renders YYYY-MM as the bare month name, falling back to
// the raw value when unparseable.
func monthShortName(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Month().String()
}

// PolicyFromString maps the CLI policy name onto a categorization policy.
// Unknown names fall back to the threshold policy.
func PolicyFromString(policy string) analysis.CategorizationPolicy {
	if strings.EqualFold(policy, "exact-zero") {
		return analysis.PolicyExactZero
	}
	return analysis.PolicyThreshold
}

// RunReport executes the full report pipeline for the given arguments.
func (uc *ReportUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	if err := uc.ApplyConfigFile(args); err != nil {
		return err
	}

	if args.ClientName == "" {
		return types.ErrClientNameNeeded
	}

	months, err := uc.ValidateMonths(args.Months)
	if err != nil {
		return err
	}

	profile, err := uc.ResolveProfile(args.Profile)
	if err != nil {
		return err
	}

	status := uc.console.Status(fmt.Sprintf("Checking credentials for profile %s...", profile))

	identity, err := uc.costRepo.GetCallerIdentity(ctx, profile)
	if err != nil {
		status.Stop()
		return err
	}
	status.Stop()
	uc.logger.Info("authenticated",
		zap.String("profile", profile),
		zap.String("account", identity.Account))

	var records []entity.CostRecord
	var regionRecords []entity.RegionCostRecord

	progress := uc.console.ProgressWithTotal(len(months))
	for _, month := range months {
		monthRecords, monthRegions, err := uc.costRepo.GetMonthlyCosts(ctx, profile, []string{month})
		if err != nil {
			progress.Stop()
			return err
		}
		records = append(records, monthRecords...)
		regionRecords = append(regionRecords, monthRegions...)
		progress.Increment()
	}
	progress.Stop()
	uc.logger.Info("cost data fetched",
		zap.Int("records", len(records)),
		zap.Int("region_records", len(regionRecords)))

	status = uc.console.Status("Fetching budgets...")

	// Budgets are a side signal; a failure must not sink the report.
	budgets, err := uc.costRepo.GetBudgets(ctx, profile)
	if err != nil {
		uc.logger.Warn("budgets unavailable", zap.Error(err))
		budgets = nil
	}

	status.Update("Analyzing cost changes...")

	cfg := analysis.DefaultConfig()
	cfg.CategorizationPolicy = PolicyFromString(args.Policy)
	engine := analysis.NewEngine(cfg)

	result := engine.Analyze(analysis.AnalysisInput{
		ClientName:    args.ClientName,
		Months:        months,
		Records:       records,
		RegionRecords: regionRecords,
		Budgets:       budgets,
	})

	status.Stop()

	uc.displayResult(result, identity, profile)

	if args.Trend {
		uc.displayTrend(result)
	}

	return uc.exportResult(result, args, months)
}

// displayResult renders the analysis on the console: the service table,
// the region ranking and the window summary.
func (uc *ReportUseCase) displayResult(result *entity.AnalysisResult, identity entity.CallerIdentity, profile string) {
	uc.console.Printf("\n%s\n",
		pterm.FgYellow.Sprintf("Client: %s | Account: %s (Profile: %s)", result.ClientName, identity.Account, profile))

	table := uc.console.CreateTable()
	table.AddColumn("Service")
	for _, name := range result.MonthNames {
		table.AddColumn(name)
	}
	table.AddColumn("Change")
	table.AddColumn("Category")

	for _, sc := range result.AllServices {
		row := []interface{}{sc.Service}
		for _, t := range sc.MonthTotals {
			row = append(row, analysis.FormatDollar(t))
		}
		row = append(row, uc.formatChange(sc), uc.formatCategory(sc))
		table.AddRow(row...)
	}

	totalRow := []interface{}{"TOTAL"}
	for _, t := range result.GrandTotals {
		totalRow = append(totalRow, analysis.FormatDollar(t))
	}
	totalRow = append(totalRow, result.TotalReason, "")
	table.AddRow(totalRow...)

	uc.console.Print(table.Render())

	if len(result.Regions) > 0 {
		regionTable := uc.console.CreateTable()
		regionTable.AddColumn("Region")
		for _, name := range result.MonthNames {
			regionTable.AddColumn(name)
		}
		regionTable.AddColumn("Total")

		for _, rc := range result.Regions {
			row := []interface{}{rc.Region}
			for _, t := range rc.MonthCosts {
				row = append(row, analysis.FormatDollar(t))
			}
			row = append(row, analysis.FormatDollar(rc.Total))
			regionTable.AddRow(row...)
		}
		uc.console.Print(regionTable.Render())
	}

	uc.console.Println()
	uc.console.LogInfo("%s", result.TotalComparison)
	if result.ProjectedNextMonth > 0 {
		uc.console.LogInfo("Projected next month: %s", analysis.FormatUSD(result.ProjectedNextMonth))
	}
	for _, breach := range result.BudgetBreaches {
		uc.console.LogWarning("%s", breach)
	}

	for _, sc := range result.Increased {
		if !sc.HighSeverity {
			continue
		}
		uc.console.LogWarning("%s: %s", sc.Service, sc.Reason)
		for _, insight := range sc.Insights {
			uc.console.Printf("    %s\n", insight)
		}
	}
}

func (uc *ReportUseCase) formatChange(sc entity.ServiceComparison) string {
	switch sc.Category {
	case entity.CategoryIncreased:
		return pterm.FgRed.Sprintf("+%s (%s)", analysis.FormatDollar(sc.AbsoluteChange), analysis.FormatPercent(sc.PercentChange))
	case entity.CategoryDecreased:
		return pterm.FgGreen.Sprintf("-%s (%s)", analysis.FormatDollar(-sc.AbsoluteChange), analysis.FormatPercent(sc.PercentChange))
	}
	return pterm.FgGray.Sprint("-")
}

func (uc *ReportUseCase) formatCategory(sc entity.ServiceComparison) string {
	switch sc.Category {
	case entity.CategoryIncreased:
		if sc.HighSeverity {
			return pterm.FgRed.Sprint("Increased (!)")
		}
		return pterm.FgRed.Sprint("Increased")
	case entity.CategoryDecreased:
		return pterm.FgGreen.Sprint("Decreased")
	}
	return "Unchanged"
}

// displayTrend renders the grand totals as trend bars.
func (uc *ReportUseCase) displayTrend(result *entity.AnalysisResult) {
	monthlyCosts := make([]types.MonthlyCost, len(result.MonthNames))
	for i, name := range result.MonthNames {
		monthlyCosts[i] = types.MonthlyCost{Month: name, Cost: result.GrandTotals[i]}
	}
	uc.console.Println()
	uc.console.DisplayTrendBars(monthlyCosts)
}

// exportResult writes the requested report files.
func (uc *ReportUseCase) exportResult(result *entity.AnalysisResult, args *types.CLIArgs, months []string) error {
	if len(args.ReportType) == 0 {
		return nil
	}

	reportName := args.ReportName
	if reportName == "" {
		reportName = BuildReportName(result.ClientName, months)
	}

	for _, reportType := range args.ReportType {
		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(result, reportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(result, reportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(result, reportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("Unknown report type '%s' (expected csv, json or pdf)", reportType)
		}
	}
	return nil
}
