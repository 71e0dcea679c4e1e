package logging

// Config is the `logging` section of the cmux-notify config file.
type Config struct {
	// Level is the minimum level written ("debug", "info", "warn", "error").
	// CMUX_NOTIFY_LOG_LEVEL takes precedence.
	Level string `yaml:"level,omitempty" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=warning,enum=error"`

	// ReportCaller adds file, line and function to every entry.
	// CMUX_NOTIFY_LOG_CALLER=true has the same effect.
	ReportCaller bool `yaml:"report_caller,omitempty"`

	// File configures logging to a file.
	File FileSinkConfig `yaml:"file,omitempty"`

	// Format configures the appearance of the log output.
	Format FormatConfig `yaml:"format,omitempty"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	// Path is the full path to the log file. A leading ~ is expanded.
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty" jsonschema:"enum=text,enum=json"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset           string `yaml:"preset,omitempty" jsonschema:"enum=default,enum=simple,enum=json"`
	DisableTimestamp bool   `yaml:"disable_timestamp,omitempty"`
	DisableComponent bool   `yaml:"disable_component,omitempty"`
	// StructuredToStderr is "auto" (default), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr,omitempty" jsonschema:"enum=auto,enum=always,enum=never"`
}
