package web

import (
	"errors"
	"log"
	"time"

	"mcquiz/internal/game"
)

// DefaultCookieName is used when Config.CookieName is empty.
const DefaultCookieName = "mcquiz_session"

// Config captures the settings for serving the quiz UI.
type Config struct {
	Addr           string
	Game           *game.Service
	CookieName     string
	CookieTTL      time.Duration
	SecureCookie   bool
	AllowedOrigins []string
	Logger         *log.Logger
}

func (cfg *Config) normalize() error {
	if cfg.Game == nil {
		return errors.New("web: game service is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = 24 * time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return nil
}
