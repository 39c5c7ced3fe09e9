package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"go.uber.org/zap"
)

// Load reads a mapping file, a missing file results in built-in defaults
func Load(path string) (Config, error) {
	if path == "" {
		log.Info("no mapping file given, using built-in defaults", logger.Info)
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("mapping file does not exist, using built-in defaults", zap.String("config", path), logger.Warning)
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading \"%s\" failed: %w", path, err)
	}

	cfg, err := ParseData(data)
	if err != nil {
		return Config{}, fmt.Errorf("\"%s\": %w", path, err)
	}

	log.Info("mapping file loaded", zap.String("config", path), logger.Info)
	return cfg, nil
}
