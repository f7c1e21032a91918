// Package config loads .mcquiz.yml.
package config

// Config is the root of .mcquiz.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Redis    RedisConfig    `yaml:"redis"`
	History  HistoryConfig  `yaml:"history"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SessionConfig selects where per-player state lives.
type SessionConfig struct {
	Store      string `yaml:"store"`
	TTL        string `yaml:"ttl"`
	CookieName string `yaml:"cookie_name"`
}

// RedisConfig is used when session.store is redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// HistoryConfig selects the attempt log database.
type HistoryConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// QuizConfig holds quiz defaults.
type QuizConfig struct {
	Mode string `yaml:"mode"`
}

// TelegramConfig configures the chat bot.
type TelegramConfig struct {
	Token         string `yaml:"token"`
	QuestionsFile string `yaml:"questions_file"`
	PollTimeout   int    `yaml:"poll_timeout"`
}
