package config

type Config struct {
	ArchiveDir string    `mapstructure:"archiveDir"`
	SchemaFile string    `mapstructure:"schemaFile"`
	Addr       string    `mapstructure:"addr"`
	Log        LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
