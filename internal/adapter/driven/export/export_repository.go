package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/costreports/costreports/internal/domain/analysis"
	"github.com/costreports/costreports/internal/domain/entity"
	"github.com/costreports/costreports/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implements the ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository creates a new ExportRepository implementation.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportToCSV(result *entity.AnalysisResult, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Service", "Category"}
	for _, name := range result.MonthNames {
		headers = append(headers, fmt.Sprintf("Cost (%s)", name))
	}
	headers = append(headers, "Change", "Change %", "Reason", "Insights")
	writer.Write(headers)

	for _, sc := range result.AllServices {
		record := []string{sc.Service, string(sc.Category)}
		for _, t := range sc.MonthTotals {
			record = append(record, fmt.Sprintf("$%.2f", t))
		}
		record = append(record,
			fmt.Sprintf("$%.2f", sc.AbsoluteChange),
			fmt.Sprintf("%.1f%%", sc.PercentChange),
			cleanRichTags(sc.Reason),
			cleanRichTags(strings.Join(sc.Insights, "\n")),
		)
		writer.Write(record)
	}

	writer.Write(nil)

	regionHeaders := []string{"Region", ""}
	for _, name := range result.MonthNames {
		regionHeaders = append(regionHeaders, fmt.Sprintf("Cost (%s)", name))
	}
	regionHeaders = append(regionHeaders, "Total", "", "", "")
	writer.Write(regionHeaders)

	for _, rc := range result.Regions {
		record := []string{rc.Region, ""}
		for _, t := range rc.MonthCosts {
			record = append(record, fmt.Sprintf("$%.2f", t))
		}
		record = append(record, fmt.Sprintf("$%.2f", rc.Total), "", "", "")
		writer.Write(record)
	}

	writer.Write(nil)

	totalRecord := []string{"TOTAL", ""}
	for _, t := range result.GrandTotals {
		totalRecord = append(totalRecord, fmt.Sprintf("$%.2f", t))
	}
	totalRecord = append(totalRecord,
		fmt.Sprintf("$%.2f", result.GrandTotal), "",
		cleanRichTags(result.TotalComparison), "")
	writer.Write(totalRecord)

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(result *entity.AnalysisResult, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(result *entity.AnalysisResult, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	sectionTitleColor := [3]int{0, 0, 0}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title string, content string) {
		if content == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(cleanRichTags(content)), "", "L", false)
		pdf.Ln(8)
	}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	title := fmt.Sprintf("  Cost Report - %s", result.ClientName)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Months: %s", strings.Join(result.MonthNames, ", "))), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	var summary strings.Builder
	summary.WriteString(result.TotalComparison)
	summary.WriteString(fmt.Sprintf("\nWindow total: %s", analysis.FormatUSD(result.GrandTotal)))
	if result.ProjectedNextMonth > 0 {
		summary.WriteString(fmt.Sprintf("\nProjected next month: %s", analysis.FormatUSD(result.ProjectedNextMonth)))
	}
	drawSection("Summary", summary.String())

	drawSection("Budget Breaches", strings.Join(result.BudgetBreaches, "\n"))

	var regions strings.Builder
	for _, rc := range result.Regions {
		regions.WriteString(fmt.Sprintf("%s: %s\n", rc.Region, analysis.FormatUSD(rc.Total)))
	}
	drawSection("Cost By Region", strings.TrimSpace(regions.String()))

	sections := []struct {
		title    string
		category entity.ChangeCategory
	}{
		{"Increased Costs", entity.CategoryIncreased},
		{"Decreased Costs", entity.CategoryDecreased},
		{"Unchanged Costs", entity.CategoryUnchanged},
	}
	for _, section := range sections {
		services := result.ServicesFor(section.category)
		if len(services) == 0 {
			continue
		}
		pdf.AddPage()
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr(fmt.Sprintf("  %s", section.title)), "", 1, "L", true, 0, "")
		pdf.Ln(8)

		for _, sc := range services {
			serviceTitle := fmt.Sprintf("%s (%s)", sc.Service, sc.Reason)
			if sc.HighSeverity {
				serviceTitle = fmt.Sprintf("%s (%s) [!]", sc.Service, sc.Reason)
			}
			content := sc.Comparison
			if len(sc.Insights) > 0 {
				content += "\n\nKey drivers:\n" + strings.Join(sc.Insights, "\n")
			}
			drawSection(serviceTitle, content)
		}
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	footerText := fmt.Sprintf("Generated by CostReports | %s", time.Now().Format("2006-01-02"))
	pdf.CellFormat(0, 10, tr(footerText), "", 0, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", base, ext)), nil
}

// Regexes to strip pterm rich tags and ANSI color/style sequences.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// cleanRichTags removes pterm formatting tags and ANSI sequences.
func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}
