package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/engine"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var (
	configPath   = flag.String("c", "", "mapping file (.gptk), built-in mapping is used when not given\n(documented example: "+configDir+"/gptokeyb.gptk)")
	xbox360      = flag.Bool("xbox360", false, "emulate Xbox 360 controller instead of keyboard and mouse")
	killTarget   = flag.String("k", "", "process name to terminate with start+hotkey combo")
	preset       = flag.String("preset", "", "text typed with start+up combo")
	textInput    = flag.Bool("textinput", false, "enable interactive text entry with start+down combo")
	noCaps       = flag.Bool("nocaps", false, "text entry starts every word with lowercase letter")
	extraSymbols = flag.Bool("extrasymbols", false, "extend text entry character set with additional symbols")
	hotkey       = flag.String("hotkey", "", "hotkey button: guide, back or l3 (HOTKEY environment variable takes precedence)")

	sourceName   = flag.String("source", "evdev", "controller source: evdev or sdl")
	grab         = flag.Bool("grab", false, "grab input devices for exclusive usage (evdev source)")
	profilesPath = flag.String("profiles", profilesDir, "controller profiles directory (evdev source)")
	mappings     = flag.String("mappings", os.Getenv("SDL_GAMECONTROLLERCONFIG_FILE"), "SDL controller mapping database (sdl source)")

	nocolor  = flag.Bool("nocolor", false, "disable color")
	silent   = flag.Bool("silent", false, "no output logging")
	logLevel = flag.Int("loglevel", 1,
		"logging level, each level enables additional information class (0-3, default: 1)\n"+
			"\navailable options:\n"+
			"0: general info (eg. controller appearance status, warnings, errors)\n"+
			"1: action events (combos, mode switches, text entry)\n"+
			"2: key events (emitted keys and buttons)\n"+
			"3: analog events (mouse motion)",
	)
)

func handleSigs(wg *sync.WaitGroup, sigs <-chan os.Signal, cancel func()) {
	defer wg.Done()
	var counter int
	for sig := range sigs {
		if counter > 0 {
			fmt.Println("Dirty exit")
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("signal received: %v", sig), logger.Debug)
		cancel()
		counter++
	}
}

func printLogs(wg *sync.WaitGroup) {
	defer wg.Done()
	au := aurora.NewAurora(!*nocolor)
	for data := range logger.Messages {
		msg, err := unpack(data)
		if err != nil {
			fmt.Printf("%s\n", string(data))
			continue
		}
		m := prepareString(msg, au, *logLevel)
		if m != "" {
			fmt.Printf("%s\n", m)
		}
	}
}

func newSource() (input.Source, error) {
	switch *sourceName {
	case "evdev":
		profiles, err := input.LoadProfiles(*profilesPath)
		if err != nil {
			return nil, fmt.Errorf("loading controller profiles failed: %w", err)
		}
		return input.NewEvdevSource(profiles, *grab), nil
	case "sdl":
		return newSDLSource(*mappings)
	}
	return nil, fmt.Errorf("unknown controller source \"%s\"", *sourceName)
}

func managerOpts() (managerOptions, error) {
	textOptions := *preset != "" || *textInput
	opts := managerOptions{
		configPath: *configPath,
		engine: engine.Options{
			Mode:         engine.SelectMode(*xbox360, *killTarget, *configPath != "", textOptions),
			KillTarget:   *killTarget,
			Preset:       *preset,
			TextInput:    *textInput,
			NoCaps:       *noCaps,
			ExtraSymbols: *extraSymbols,
		},
	}

	name := *hotkey
	if env := os.Getenv("HOTKEY"); env != "" {
		name = env
	}
	if name != "" {
		c, err := config.ParseHotkey(name)
		if err != nil {
			return opts, err
		}
		opts.hotkey = c
		opts.hotkeyGiven = true
	}
	return opts, nil
}

func run() error {
	err := createConfigDirectoryIfNeeded()
	if err != nil {
		log.Info(fmt.Sprintf("config directory: %s", err), logger.Warning)
	}

	opts, err := managerOpts()
	if err != nil {
		return err
	}
	log.Info("Starting", zap.String("mode", opts.engine.Mode.String()), logger.Info)

	source, err := newSource()
	if err != nil {
		return err
	}

	var sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go handleSigs(&wg, sigs, cancel)

	err = runManager(ctx, source, opts)

	signal.Stop(sigs)
	close(sigs)
	wg.Wait()
	return err
}

func main() {
	flag.Parse()
	*logLevel += 2

	if *silent {
		logger.Discard()
	}

	// this wait-group tracks the log printer, it has to outlive everything that logs
	printer := sync.WaitGroup{}
	printer.Add(1)
	go printLogs(&printer)

	err := run()
	if err != nil {
		log.Info(err.Error(), logger.Error)
	}

	close(logger.Messages)
	printer.Wait()

	if err != nil {
		os.Exit(1)
	}
}
