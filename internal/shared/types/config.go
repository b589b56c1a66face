package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	ClientName string   `json:"client_name" yaml:"client_name" toml:"client_name"`
	Months     []string `json:"months" yaml:"months" toml:"months"`
	Profile    string   `json:"profile" yaml:"profile" toml:"profile"`
	Region     string   `json:"region" yaml:"region" toml:"region"`
	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`
	Policy     string   `json:"policy" yaml:"policy" toml:"policy"`
	Trend      bool     `json:"trend" yaml:"trend" toml:"trend"`
}
