package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
)

//go:embed gptokeyb-config/gptokeyb.gptk
//go:embed gptokeyb-config/profiles/factory/*
var templateConfig embed.FS

const (
	configDir   = "gptokeyb-config"
	profilesDir = configDir + "/profiles"
)

func writeTemplate(path string) error {
	data, err := fs.ReadFile(templateConfig, path)
	if err != nil {
		return fmt.Errorf("cannot read \"%s\" template file: %w", path, err)
	}

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("cannot open \"%s\" file: %w", path, err)
	}
	defer dst.Close()

	_, err = dst.Write(data)
	if err != nil {
		return fmt.Errorf("cannot write data into \"%s\" file: %w", path, err)
	}
	return nil
}

// createConfigDirectoryIfNeeded creates config directory if necessary.
// It also updates factory controller profiles, gptokeyb.gptk stays intact.
func createConfigDirectoryIfNeeded() error {
	_, err := os.Stat(configDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot open config directory: %w", err)
		}
		log.Info("config not exist, generating tree...", logger.Info)

		err = fs.WalkDir(templateConfig, configDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				err := os.Mkdir(path, 0o777)
				if err != nil {
					return fmt.Errorf("cannot create \"%s\" directory: %w", path, err)
				}
				return nil
			}
			err = writeTemplate(path)
			if err != nil {
				return err
			}
			log.Info(fmt.Sprintf("Created \"%s\" file", path), logger.Debug)
			return nil
		})
		if err != nil {
			return fmt.Errorf("config generation failed: %w", err)
		}
		log.Info("config generation done", logger.Info)
		return nil
	}

	// update factory profiles
	err = fs.WalkDir(templateConfig, profilesDir+"/factory", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			err := os.MkdirAll(path, 0o777)
			if err != nil {
				return fmt.Errorf("cannot create \"%s\" directory: %w", path, err)
			}
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("cannot open \"%s\" file: %w", path, err)
			}
			log.Info(fmt.Sprintf("Creating new factory profile: \"%s\"", path), logger.Debug)
			return writeTemplate(path)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return fmt.Errorf("cannot read \"%s\" file: %w", path, err)
		}

		newData, err := fs.ReadFile(templateConfig, path)
		if err != nil {
			return fmt.Errorf("cannot open \"%s\" file template: %w", path, err)
		}
		if bytes.Equal(data, newData) {
			return nil
		}
		log.Info(fmt.Sprintf("File \"%s\" changed, replacing data...", filepath.Base(path)), logger.Debug)
		return writeTemplate(path)
	})
	if err != nil {
		return fmt.Errorf("update factory profiles failed: %w", err)
	}
	return nil
}
