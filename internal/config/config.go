package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Sprint   SprintConfig   `mapstructure:"sprint"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig contains connection settings for the dialogue cache and
// preference store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`

	// DialogueTTLHours bounds how long a cached dialogue entry may live even
	// when its fingerprint still matches. Zero means no expiry.
	DialogueTTLHours int `mapstructure:"dialogue_ttl_hours" validate:"gte=0"`
}

// AuthConfig contains token validation settings. Token issuance belongs to
// the external identity provider; this service only verifies.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName          string `mapstructure:"model_name" validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"required"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// SprintConfig describes the curriculum shape.
type SprintConfig struct {
	// Days is the number of curriculum days in the sprint, day 0 included.
	Days int `mapstructure:"days" validate:"required,gt=0"`

	// PrewarmWorkers is the worker count for background dialogue generation.
	PrewarmWorkers int `mapstructure:"prewarm_workers" validate:"gte=1,lte=32"`

	// StreakLength is the consecutive-day count for the day_streak achievement.
	StreakLength int `mapstructure:"streak_length" validate:"gte=2"`

	// Topics holds one lesson topic per curriculum day, in day order.
	Topics []string `mapstructure:"topics" validate:"required,min=1,dive,required"`
}
