package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/studyhall/studyhall/internal/llm"
	"github.com/studyhall/studyhall/internal/store"
)

// Config holds service-level configuration.
type Config struct {
	// Addr is the HTTP listen address. Default: ":8080".
	Addr string

	// Mode selects logging and router behavior: "dev" or "prod".
	Mode string

	// JWTSecret signs and verifies bearer tokens. Required to serve.
	JWTSecret string

	// CORSOrigins lists allowed origins. Empty means same-origin only.
	CORSOrigins []string

	Store store.Config
	LLM   llm.Config
}

// FromEnv builds a Config from STUDYHALL_-prefixed environment
// variables, falling back to defaults for unset values.
func FromEnv() Config {
	cfg := Config{
		Addr: ":8080",
		Mode: "dev",
		Store: store.Config{
			Driver: "sqlite",
			DSN:    "studyhall.db",
		},
		LLM: llm.ConfigFromEnv(),
	}

	if v := os.Getenv("STUDYHALL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STUDYHALL_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("STUDYHALL_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("STUDYHALL_CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if v := os.Getenv("STUDYHALL_DB_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("STUDYHALL_DB_DSN"); v != "" {
		cfg.Store.DSN = v
	}

	return cfg
}

// Validate checks that the config is complete enough to serve.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("STUDYHALL_JWT_SECRET is required")
	}
	if c.Mode != "dev" && c.Mode != "prod" {
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}
	return c.LLM.Validate()
}
