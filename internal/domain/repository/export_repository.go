package repository

import (
	"github.com/costreports/costreports/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(result *entity.AnalysisResult, filename string, outputDir string) (string, error)
	ExportToJSON(result *entity.AnalysisResult, filename string, outputDir string) (string, error)
	ExportToPDF(result *entity.AnalysisResult, filename string, outputDir string) (string, error)
}
