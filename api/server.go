package api

import (
	"github.com/caarlos0/env/v11"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/andreipak/hypercube/cube"
)

// Config holds server settings, parsed from the environment.
type Config struct {
	Addr        string `env:"CUBE_ADDR" envDefault:":8080"`
	EnableCORS  bool   `env:"CUBE_CORS" envDefault:"true"`
	RequestLogs bool   `env:"CUBE_REQUEST_LOGS" envDefault:"true"`
}

// LoadConfig reads server settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewServer builds an echo server exposing the cube under /api.
func NewServer(c *cube.Cube, cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	if cfg.RequestLogs {
		e.Use(middleware.Logger())
	}
	if cfg.EnableCORS {
		e.Use(middleware.CORS())
	}

	NewHandler(c).RegisterRoutes(e)
	return e
}
