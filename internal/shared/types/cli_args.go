package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	ClientName string
	Months     []string
	Profile    string
	Region     string
	ReportName string
	ReportType []string
	Dir        string
	Policy     string
	Trend      bool
}
