package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"go.uber.org/zap"
)

// EvdevSource reads game controllers straight from /dev/input
type EvdevSource struct {
	Profiles      Profiles
	Grab          bool
	DiscoveryRate time.Duration
	OpenTimeout   time.Duration
}

func NewEvdevSource(profiles Profiles, grab bool) *EvdevSource {
	return &EvdevSource{
		Profiles:      profiles,
		Grab:          grab,
		DiscoveryRate: time.Second,
		OpenTimeout:   time.Second * 5,
	}
}

// open retries for a while, udev may not have adjusted permissions of a fresh handler yet
func (s *EvdevSource) open(ctx context.Context, info DeviceInfo, instance int32) (*Controller, error) {
	appearedAt := time.Now()
	profile := s.Profiles.FindProfile(info)
	for {
		c, err := OpenController(info, profile, instance)
		if err == nil {
			return c, nil
		}
		if time.Since(appearedAt) > s.OpenTimeout {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond * 100):
		}
	}
}

func (s *EvdevSource) Run(ctx context.Context, events chan<- Event) error {
	var wg sync.WaitGroup
	var cancels = make(map[string]context.CancelFunc)
	var instance int32

	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
		wg.Wait()
	}()

	for change := range MonitorDevices(ctx, s.DiscoveryRate) {
		path := change.Info.EventPath()

		if !change.Added {
			if cancel, ok := cancels[path]; ok {
				cancel()
				delete(cancels, path)
			}
			continue
		}

		c, err := s.open(ctx, change.Info, instance)
		if err != nil {
			log.Info("failed to open device on time, giving up", zap.String("device_name", change.Info.Name), zap.Error(err), logger.Warning)
			continue
		}
		instance++

		devCtx, cancel := context.WithCancel(ctx)
		cancels[path] = cancel

		log.Info("Device connected", zap.String("device_name", change.Info.Name),
			zap.String("config", c.profile.Name), logger.Info,
		)
		log.Info(fmt.Sprintf("controller %s on %s", change.Info.String(), change.Info.Port()), zap.Int32("instance", c.Instance), logger.Debug)

		wg.Add(1)
		go func(c *Controller) {
			defer wg.Done()
			select {
			case events <- Event{Type: DeviceAdded, Device: c.Instance}:
			case <-ctx.Done():
				_ = c.dev.Close()
				return
			}

			c.ProcessEvents(devCtx, s.Grab, events)
			log.Info("Device disconnected", zap.String("device_name", c.Info.Name), logger.Info)

			select {
			case events <- Event{Type: DeviceRemoved, Device: c.Instance}:
			case <-ctx.Done():
			}
		}(c)
	}
	return nil
}
