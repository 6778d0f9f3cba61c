package conf

type LoggingConfig struct {
	Level  string                 `mapstructure:"log_level" json:"log_level"`
	File   string                 `mapstructure:"log_file" json:"log_file"`
	Fields map[string]interface{} `mapstructure:"fields" json:"fields"`
}
