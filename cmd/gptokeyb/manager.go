package main

import (
	"context"
	"fmt"

	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/engine"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/gethiox/gptokeyb/internal/pkg/output"
	"github.com/gethiox/gptokeyb/internal/pkg/process"
	"go.uber.org/zap"
)

const (
	keyboardName = "gptokeyb keyboard"
	gamepadName  = "Microsoft X-Box 360 pad"
)

type managerOptions struct {
	configPath string
	engine     engine.Options

	hotkey      config.Control
	hotkeyGiven bool
}

func openSink(mode engine.Mode) (output.Sink, error) {
	switch mode {
	case engine.ModeGamepad:
		return output.NewGamepad(gamepadName)
	case engine.ModeKill:
		return output.Null{}, nil
	}
	return output.NewKeyboard(keyboardName)
}

func loadConfig(opts managerOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.hotkeyGiven {
		cfg.Hotkey = opts.hotkey
	}
	return cfg, nil
}

// runManager is the main program process, it restarts the engine on every config change.
// Before exiting from that function it ensures that all goroutine execution has completed.
func runManager(ctx context.Context, source input.Source, opts managerOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("loading config failed: %w", err)
	}

	sink, err := openSink(opts.engine.Mode)
	if err != nil {
		return err
	}
	defer func() {
		err := sink.Close()
		if err != nil {
			log.Info(fmt.Sprintf("failed to close virtual device: %s", err), logger.Warning)
		}
	}()

	// grace period is taken from the config loaded at start
	terminator := process.NewTerminator(cfg.KillGrace)
	defer terminator.Wait()

	var configChange <-chan bool
	if opts.configPath != "" {
		configChange = config.DetectConfigChanges(ctx, opts.configPath)
	}

	var events = make(chan input.Event, 64)
	sourceCtx, cancelSource := context.WithCancel(context.Background())
	sourceErr := make(chan error, 1)
	go func() {
		sourceErr <- source.Run(sourceCtx, events)
	}()
	defer func() {
		cancelSource()
		if sourceErr != nil {
			<-sourceErr
		}
	}()

	log.Info("Run manager", logger.Debug)
	for {
		e, err := engine.New(cfg, opts.engine, sink, terminator, events)
		if err != nil {
			return err
		}

		engineCtx, cancelEngine := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- e.Run(engineCtx)
		}()

	wait:
		for {
			select {
			case err := <-done:
				cancelEngine()
				return err
			case _, ok := <-configChange:
				if !ok {
					configChange = nil
					continue
				}
				log.Info("handling config change", zap.String("config", opts.configPath), logger.Info)
				break wait
			case err := <-sourceErr:
				sourceErr = nil
				cancelEngine()
				engineErr := <-done
				if err != nil {
					return fmt.Errorf("controller source failed: %w", err)
				}
				return engineErr
			}
		}

		cancelEngine()
		err = <-done
		if err != nil {
			return err
		}

		newCfg, err := loadConfig(opts)
		if err != nil {
			log.Info(fmt.Sprintf("config reload failed, keeping previous one: %s", err), zap.String("config", opts.configPath), logger.Error)
			continue
		}
		cfg = newCfg
		log.Info("config reloaded", zap.String("config", opts.configPath), logger.Info)
	}
}
