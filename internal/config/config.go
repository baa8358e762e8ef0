package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Sessions SessionsConfig `mapstructure:"sessions" validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
	Deck     DeckConfig     `mapstructure:"deck"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains the settings used to validate learner tokens issued
// by the host page.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SessionsConfig selects where live quiz sessions are kept.
type SessionsConfig struct {
	Backend    string `mapstructure:"backend"     validate:"required,oneof=memory redis"`
	RedisURL   string `mapstructure:"redis_url"   validate:"omitempty,url"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"required,gt=0"`
}

// TaskConfig contains settings for the background interaction writer.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count"           validate:"required,gt=0"`
	QueueSize           int `mapstructure:"queue_size"             validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}

// DeckConfig chooses the lesson deck and how slides are presented.
type DeckConfig struct {
	// Path to a YAML deck. Empty uses the embedded physics deck.
	Path  string `mapstructure:"path"`
	Theme string `mapstructure:"theme" validate:"required,oneof=light dark"`
}
