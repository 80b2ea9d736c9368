package config

// LoggingConfig configures the scheduler log
type LoggingConfig struct {
	// debug, info, warn or error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// json or text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// stdout, stderr or file
	Output   string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	IncludeCaller bool `mapstructure:"include_caller"`

	// Fields are attached to every entry, e.g. {shard: shard3}
	Fields map[string]string `mapstructure:"fields"`
}
