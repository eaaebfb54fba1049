package gqlsql

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lateralquery/gqlpg/handler"
)

// ServeConfig is gqlsql.yaml's shape: narrowed to what a translator-serving
// binding shim needs — where to listen and the per-request timeout. The
// timeout is the deadline of the context the handler passes to its error
// presenter and recover hooks; the translation itself does not observe it
// and is not cancelled when it expires.
type ServeConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

func defaultServeConfig() ServeConfig {
	return ServeConfig{Addr: ":8080", RequestTimeout: 30 * time.Second}
}

func loadServeConfig(path string) (ServeConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// RunServe implements the `serve` subcommand: starts handler.Server bound to
// the configured address.
func RunServe(args []string) error {
	configPath := "gqlsql.yaml"
	addrOverride := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 >= len(args) {
				return fmt.Errorf("--config requires a file path")
			}
			i++
			configPath = args[i]
		case "--addr":
			if i+1 >= len(args) {
				return fmt.Errorf("--addr requires a value")
			}
			i++
			addrOverride = args[i]
		}
	}

	cfg, err := loadServeConfig(configPath)
	if err != nil {
		return err
	}
	if addrOverride != "" {
		cfg.Addr = addrOverride
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	srv := handler.NewWithConfig(handler.Config{
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})
	srv.Use(handler.NewOPTIONS())
	srv.Use(handler.NewGET())
	srv.Use(handler.NewPOST())
	srv.Use(handler.NewMultipartForm())

	logger.Info("gqlsql serve listening", zap.String("addr", cfg.Addr))
	return http.ListenAndServe(cfg.Addr, srv)
}
