package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/costreports/costreports/pkg/version"

	"github.com/costreports/costreports/internal/application/usecase"
	"github.com/costreports/costreports/internal/shared/types"
	"github.com/spf13/cobra"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd       *cobra.Command
	reportUseCase *usecase.ReportUseCase
	version       string
}

// NewCLIApp creates a new CLI application.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "costreports",
		Short:   "Cost change analysis reports for AWS accounts",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "CostReports version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("client", "c", "", "Client name used in the report header and file name")
	rootCmd.PersistentFlags().StringSliceP("months", "m", nil, "Months to compare in YYYY-MM format, ascending (2 to 6, comma-separated)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile to use (default: the 'default' profile)")
	rootCmd.PersistentFlags().StringP("region", "r", "", "AWS region for the session (Cost Explorer itself is global)")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Base name for the report file (default: derived from client and months)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Report types to export: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().String("policy", "", "Change categorization policy: threshold (default) or exact-zero")
	rootCmd.PersistentFlags().Bool("trend", false, "Display the monthly grand totals as trend bars")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	configFile, _ := app.rootCmd.Flags().GetString("config-file")
	client, _ := app.rootCmd.Flags().GetString("client")
	months, _ := app.rootCmd.Flags().GetStringSlice("months")
	profile, _ := app.rootCmd.Flags().GetString("profile")
	region, _ := app.rootCmd.Flags().GetString("region")
	reportName, _ := app.rootCmd.Flags().GetString("report-name")
	reportType, _ := app.rootCmd.Flags().GetStringSlice("report-type")
	dir, _ := app.rootCmd.Flags().GetString("dir")
	policy, _ := app.rootCmd.Flags().GetString("policy")
	trend, _ := app.rootCmd.Flags().GetBool("trend")

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile: configFile,
		ClientName: client,
		Months:     months,
		Profile:    profile,
		Region:     region,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
		Policy:     policy,
		Trend:      trend,
	}

	return args, nil
}

// runCommand is the main entry point for the CLI command.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	ctx := context.Background()
	return app.reportUseCase.RunReport(ctx, cliArgs)
}

// SetReportUseCase sets the report use case for the CLI app.
func (app *CLIApp) SetReportUseCase(useCase *usecase.ReportUseCase) {
	app.reportUseCase = useCase
}
