package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"zgony/domain/mortality"
	"zgony/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Report ReportConfig
	Output OutputConfig
	Log    LogConfig
}

// DataConfig holds where and how the yearly workbooks are read
type DataConfig struct {
	Dir         string
	Templates   []string
	Sheet       string
	Years       []int
	Parallelism int
}

// ReportConfig holds which rows make up a report and how they are averaged
type ReportConfig struct {
	AgeGroups     []string
	Region        string
	OverallLabel  string
	AveragePolicy string
	Strict        bool
	// StrictStats makes an undefined average fail the run instead of showing n/a
	StrictStats bool
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Dir         string
	ChartFormat string
	Locale      string
	// RunID labels the summary; empty means a new one per run
	RunID string
	// Styled enables colors in console tables; set by the CLI when stdout is a terminal
	Styled bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

const (
	minYear = 1900
	maxYear = 2100
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dataConfig, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}
	config.Data = *dataConfig

	config.Report = *loadReportConfig()
	config.Output = *loadOutputConfig()
	config.Log = LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() (*DataConfig, error) {
	years, err := ParseYears(getEnvOrDefault("YEARS", "2015-2023"))
	if err != nil {
		return nil, err
	}

	return &DataConfig{
		Dir:         getEnvOrDefault("DATA_DIR", "data"),
		Templates:   getEnvListOrDefault("FILE_TEMPLATES", mortality.DefaultFileTemplates()),
		Sheet:       getEnvOrDefault("SHEET", "OGÓŁEM"),
		Years:       years,
		Parallelism: getEnvIntOrDefault("PARALLELISM", 1),
	}, nil
}

func loadReportConfig() *ReportConfig {
	return &ReportConfig{
		AgeGroups:     getEnvListOrDefault("AGE_GROUPS", mortality.DefaultAgeGroups().Labels()),
		Region:        getEnvOrDefault("REGION_LABEL", mortality.DefaultRegion),
		OverallLabel:  getEnvOrDefault("OVERALL_LABEL", mortality.DefaultOverallLabel),
		AveragePolicy: getEnvOrDefault("AVERAGE_POLICY", string(mortality.AverageNonZero)),
		Strict:        getEnvBoolOrDefault("STRICT_ROWS", false),
		StrictStats:   getEnvBoolOrDefault("STRICT_STATS", false),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Dir:         getEnvOrDefault("OUTPUT_DIR", "out"),
		ChartFormat: getEnvOrDefault("CHART_FORMAT", "png"),
		Locale:      getEnvOrDefault("LOCALE", "pl"),
		RunID:       os.Getenv("RUN_ID"),
	}
}

// Validate checks the settings that can be wrong after flags override the environment
func (c *Config) Validate() error {
	if len(c.Data.Years) == 0 {
		return errors.ConfigInvalid("at least one year is required")
	}
	seen := make(map[int]bool, len(c.Data.Years))
	for _, y := range c.Data.Years {
		if y < minYear || y > maxYear {
			return errors.ConfigInvalid(fmt.Sprintf("year %d outside %d-%d", y, minYear, maxYear))
		}
		if seen[y] {
			return errors.ConfigInvalid(fmt.Sprintf("year %d listed more than once", y))
		}
		seen[y] = true
	}
	if c.Data.Parallelism < 1 {
		return errors.ConfigInvalid("PARALLELISM must be at least 1")
	}
	if c.Data.Sheet == "" {
		return errors.ConfigInvalid("SHEET is required")
	}
	if c.Report.Region == "" || c.Report.OverallLabel == "" {
		return errors.ConfigInvalid("REGION_LABEL and OVERALL_LABEL are required")
	}
	if _, err := c.ReportOptions(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if _, err := c.Policy(); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	switch c.Output.ChartFormat {
	case "png", "svg":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("CHART_FORMAT %q is not png or svg", c.Output.ChartFormat))
	}
	return nil
}

// ReportOptions builds validated report options from the configuration
func (c *Config) ReportOptions() (mortality.ReportOptions, error) {
	labels, err := mortality.NewLabelSet(c.Report.AgeGroups)
	if err != nil {
		return mortality.ReportOptions{}, err
	}
	opts := mortality.ReportOptions{
		AgeGroups:    labels,
		Region:       c.Report.Region,
		OverallLabel: c.Report.OverallLabel,
		Strict:       c.Report.Strict,
	}
	if err := opts.Validate(); err != nil {
		return mortality.ReportOptions{}, err
	}
	return opts, nil
}

// Policy returns the configured averaging policy
func (c *Config) Policy() (mortality.AveragePolicy, error) {
	return mortality.ParseAveragePolicy(c.Report.AveragePolicy)
}

// ParseYears parses a comma separated list of years and inclusive ranges,
// e.g. "2015-2019,2021". Order is kept as written.
func ParseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if from, to, ok := strings.Cut(part, "-"); ok {
			start, err1 := strconv.Atoi(strings.TrimSpace(from))
			end, err2 := strconv.Atoi(strings.TrimSpace(to))
			if err1 != nil || err2 != nil || end < start {
				return nil, errors.ConfigInvalid(fmt.Sprintf("invalid year range %q", part))
			}
			if start < minYear || end > maxYear {
				return nil, errors.ConfigInvalid(fmt.Sprintf("year range %q outside %d-%d", part, minYear, maxYear))
			}
			for y := start; y <= end; y++ {
				years = append(years, y)
			}
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("invalid year %q", part))
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, errors.ConfigInvalid("no years given")
	}
	return years, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits on "|" since labels and file names contain commas and spaces
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, item := range strings.Split(value, "|") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
