package main

import (
	"fmt"
	"os"

	"github.com/costreports/costreports/internal/adapter/driven/aws"
	"github.com/costreports/costreports/internal/adapter/driven/config"
	"github.com/costreports/costreports/internal/adapter/driven/export"
	"github.com/costreports/costreports/internal/adapter/driving/cli"
	"github.com/costreports/costreports/internal/application/usecase"
	"github.com/costreports/costreports/internal/logging"
	"github.com/costreports/costreports/pkg/console"
	"github.com/costreports/costreports/pkg/version"
)

func main() {
	defer logging.Sync()

	app := cli.NewCLIApp(version.Version)

	costRepo := aws.NewCostRepository()
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	reportUseCase := usecase.NewReportUseCase(
		costRepo,
		exportRepo,
		configRepo,
		consoleImpl,
		logging.Logger,
	)

	app.SetReportUseCase(reportUseCase)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
