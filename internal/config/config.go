package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Quiz    QuizConfig    `mapstructure:"quiz" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig selects and configures the blob-store backend.
type StorageConfig struct {
	// Backend chooses where blobs live: a directory of JSON files, a
	// single SQLite database, or process memory (nothing survives exit).
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite memory"`

	// DataDir is the directory used by the file backend.
	DataDir string `mapstructure:"data_dir"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// QuizConfig contains quiz session settings.
type QuizConfig struct {
	// MaxQuestions caps how many questions one session asks.
	MaxQuestions int `mapstructure:"max_questions" validate:"required,gt=0"`

	// QuestionSeconds is the per-question countdown duration.
	QuestionSeconds int `mapstructure:"question_seconds" validate:"required,gt=0"`
}
