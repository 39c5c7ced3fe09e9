package input

import (
	"context"
	"fmt"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"go.uber.org/zap"
)

// DeviceChange reports appearance or disappearance of a game controller handler
type DeviceChange struct {
	Info  DeviceInfo
	Added bool
}

// MonitorDevices polls the system for game controllers
func MonitorDevices(ctx context.Context, rate time.Duration) <-chan DeviceChange {
	return monitorDevices(ctx, rate, GetHandlers)
}

func monitorDevices(ctx context.Context, rate time.Duration, fetch func() ([]DeviceInfo, error)) <-chan DeviceChange {
	var changes = make(chan DeviceChange)
	var tracked = make(map[string]DeviceInfo)

	go func() {
		defer close(changes)
		log.Info("Monitor new devices engaged", logger.Debug)
		defer log.Info("Monitor new devices disengaged", logger.Debug)

		ticker := time.NewTicker(rate)
		defer ticker.Stop()

		for {
			infos, err := fetch()
			if err != nil {
				log.Info(fmt.Sprintf("fetching input devices failed: %v", err), logger.Warning)
			}

			var current = make(map[string]DeviceInfo)
			for _, di := range infos {
				if di.IsGamepad() {
					current[di.EventPath()] = di
				}
			}

			var pending []DeviceChange
			for path, di := range tracked {
				if _, ok := current[path]; !ok {
					pending = append(pending, DeviceChange{Info: di})
					delete(tracked, path)
				}
			}
			for path, di := range current {
				if _, ok := tracked[path]; !ok {
					pending = append(pending, DeviceChange{Info: di, Added: true})
					tracked[path] = di
				}
			}

			for _, change := range pending {
				log.Info(fmt.Sprintf("device change: %s", change.Info.String()),
					zap.String("device_name", change.Info.Name), zap.Bool("added", change.Added), logger.Debug,
				)
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return changes
}
