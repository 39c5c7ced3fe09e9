package input

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

//go:embed default_profile.yaml
var defaultProfile []byte

type yamlProfile struct {
	Name       string `yaml:"name"`
	Identifier struct {
		Vendor  uint16 `yaml:"vendor"`
		Product uint16 `yaml:"product"`
	} `yaml:"identifier"`
	Names   []string            `yaml:"names"`
	Buttons map[string]string   `yaml:"buttons"`
	Axes    map[string]string   `yaml:"axes"`
	Hats    map[string][]string `yaml:"hats"`
	Invert  []string            `yaml:"invert"`
}

// Hat translates one hat axis into a pair of buttons, negative then positive
type Hat struct {
	Negative, Positive Button
}

// Profile translates raw evdev codes of one controller model into logical events
type Profile struct {
	Name    string
	Vendor  uint16
	Product uint16
	Names   []string

	Buttons map[evdev.EvCode]Button
	Axes    map[evdev.EvCode]Axis
	Hats    map[evdev.EvCode]Hat
	Invert  map[evdev.EvCode]bool
}

// parseCode accepts evdev code names as well as raw hex codes prefixed by "x", e.g. "x130"
func parseCode(key string, lookupTable map[string]evdev.EvCode) (evdev.EvCode, error) {
	if strings.HasPrefix(key, "x") {
		keyTrimmed := strings.TrimPrefix(key, "x")
		evcode, err := strconv.ParseUint(keyTrimmed, 16, 16)
		if err != nil {
			return evdev.EvCode(0), fmt.Errorf("conversion of hex value \"%s\" failed: %w", keyTrimmed, err)
		}
		return evdev.EvCode(evcode), nil
	}

	evcode, ok := lookupTable[key]
	if !ok {
		return evdev.EvCode(0), fmt.Errorf("EvCode name \"%s\" not found / not supported", key)
	}
	return evcode, nil
}

// ParseProfile decodes YAML controller profile
func ParseProfile(data []byte) (Profile, error) {
	var raw yamlProfile

	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)
	err := d.Decode(&raw)
	if err != nil {
		return Profile{}, fmt.Errorf("parsing yaml failed: %w", err)
	}

	p := Profile{
		Name:    raw.Name,
		Vendor:  raw.Identifier.Vendor,
		Product: raw.Identifier.Product,
		Names:   raw.Names,
		Buttons: make(map[evdev.EvCode]Button, len(raw.Buttons)),
		Axes:    make(map[evdev.EvCode]Axis, len(raw.Axes)),
		Hats:    make(map[evdev.EvCode]Hat, len(raw.Hats)),
		Invert:  make(map[evdev.EvCode]bool, len(raw.Invert)),
	}

	for codeRaw, buttonRaw := range raw.Buttons {
		code, err := parseCode(codeRaw, evdev.KEYFromString)
		if err != nil {
			return Profile{}, fmt.Errorf("[buttons] %w", err)
		}
		button, ok := ButtonFromString(buttonRaw)
		if !ok {
			return Profile{}, fmt.Errorf("[buttons] %s: unknown button \"%s\"", codeRaw, buttonRaw)
		}
		p.Buttons[code] = button
	}

	for codeRaw, axisRaw := range raw.Axes {
		code, err := parseCode(codeRaw, evdev.ABSFromString)
		if err != nil {
			return Profile{}, fmt.Errorf("[axes] %w", err)
		}
		axis, ok := AxisFromString(axisRaw)
		if !ok {
			return Profile{}, fmt.Errorf("[axes] %s: unknown axis \"%s\"", codeRaw, axisRaw)
		}
		p.Axes[code] = axis
	}

	for codeRaw, pair := range raw.Hats {
		code, err := parseCode(codeRaw, evdev.ABSFromString)
		if err != nil {
			return Profile{}, fmt.Errorf("[hats] %w", err)
		}
		if len(pair) != 2 {
			return Profile{}, fmt.Errorf("[hats] %s: expected 2 buttons, got %d", codeRaw, len(pair))
		}
		negative, ok := ButtonFromString(pair[0])
		if !ok {
			return Profile{}, fmt.Errorf("[hats] %s: unknown button \"%s\"", codeRaw, pair[0])
		}
		positive, ok := ButtonFromString(pair[1])
		if !ok {
			return Profile{}, fmt.Errorf("[hats] %s: unknown button \"%s\"", codeRaw, pair[1])
		}
		p.Hats[code] = Hat{Negative: negative, Positive: positive}
	}

	for _, codeRaw := range raw.Invert {
		code, err := parseCode(codeRaw, evdev.ABSFromString)
		if err != nil {
			return Profile{}, fmt.Errorf("[invert] %w", err)
		}
		p.Invert[code] = true
	}

	return p, nil
}

// DefaultProfile follows the Linux gamepad API layout
func DefaultProfile() Profile {
	p, err := ParseProfile(defaultProfile)
	if err != nil {
		panic(fmt.Errorf("built-in profile is broken: %w", err))
	}
	return p
}

type Profiles struct {
	Default Profile
	User    []Profile
}

// FindProfile picks a user profile by vendor/product first, by device name next,
// the default one otherwise
func (p *Profiles) FindProfile(info DeviceInfo) Profile {
	for _, profile := range p.User {
		if profile.Vendor != 0 && profile.Vendor == info.ID.Vendor && profile.Product == info.ID.Product {
			return profile
		}
	}
	name := strings.ToLower(info.Name)
	for _, profile := range p.User {
		for _, n := range profile.Names {
			if n != "" && strings.Contains(name, strings.ToLower(n)) {
				return profile
			}
		}
	}
	return p.Default
}

// LoadProfiles reads every YAML profile from given directory, broken files are skipped
func LoadProfiles(root string) (Profiles, error) {
	profiles := Profiles{Default: DefaultProfile()}
	if root == "" {
		return profiles, nil
	}

	err := filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}

		name := strings.ToLower(info.Name())
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Info(fmt.Sprintf("controller profile %s read failed: %s", name, err), logger.Warning)
			return nil
		}

		profile, err := ParseProfile(data)
		if err != nil {
			log.Info(fmt.Sprintf("controller profile %s load failed: %s", name, err), logger.Warning)
			return nil
		}
		if profile.Name == "" {
			profile.Name = name
		}
		profiles.User = append(profiles.User, profile)
		log.Info(fmt.Sprintf("controller profile loaded: %s", profile.Name), logger.Debug)
		return nil
	})
	if err != nil {
		return profiles, fmt.Errorf("walk failed: %w", err)
	}
	return profiles, nil
}
