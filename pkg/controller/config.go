package controller

import (
	"errors"
	"fmt"
	"os"

	"github.com/Seann-Moser/pwmhat/pkg/io"
	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".pwmhat.yaml"

type Configuration struct {
	Transport string `yaml:"transport"`
	Bus       string `yaml:"bus,omitempty"`
	BusNumber int    `yaml:"busNumber"`
	// Address is hex, "0x40" or "40".
	Address string  `yaml:"address"`
	PWMRate float64 `yaml:"pwmRate"`
	Listen  string  `yaml:"listen"`

	OutputEnable *LineConfig `yaml:"outputEnable,omitempty"`
	StopButton   *LineConfig `yaml:"stopButton,omitempty"`

	// Channels holds servo ranges by channel index. Channels not listed use
	// pca9685.DefaultServoSettings.
	Channels map[int]pca9685.ServoSettings `yaml:"channels,omitempty"`
}

type LineConfig struct {
	Chip string `yaml:"chip,omitempty"`
	Line string `yaml:"line"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Transport: io.KindPeriph,
		BusNumber: -1,
		Address:   fmt.Sprintf("0x%02X", pca9685.DefaultAddress),
		PWMRate:   60,
		Listen:    "0.0.0.0:8080",
		Channels:  map[int]pca9685.ServoSettings{},
	}
}

// LoadConfiguration reads path on top of the defaults. A missing file is
// not an error.
func LoadConfiguration(path string) (Configuration, error) {
	config := DefaultConfiguration()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed parsing config file %s: %w", path, err)
	}
	if config.Channels == nil {
		config.Channels = map[int]pca9685.ServoSettings{}
	}
	return config, config.Validate()
}

func (c Configuration) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed saving config file: %w", err)
	}
	return nil
}

func (c Configuration) Validate() error {
	if _, err := io.ParseAddress(c.Address); err != nil {
		return err
	}
	if _, err := pca9685.CalculatePrescaleValue(c.PWMRate); err != nil {
		return fmt.Errorf("pwmRate: %w", err)
	}
	for idx, s := range c.Channels {
		if _, err := pca9685.NewIndex(idx); err != nil {
			return fmt.Errorf("channels: %w", err)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("channel %d: %w", idx, err)
		}
	}
	return nil
}

// IOConfig is the transport part of the configuration.
func (c Configuration) IOConfig() (io.Config, error) {
	addr, err := io.ParseAddress(c.Address)
	if err != nil {
		return io.Config{}, err
	}
	return io.Config{
		Kind:      c.Transport,
		Bus:       c.Bus,
		BusNumber: c.BusNumber,
		Address:   addr,
	}, nil
}

// Servo builds the servo channel at index with its configured range.
func (c Configuration) Servo(index int) (pca9685.ServoChannel, error) {
	settings, ok := c.Channels[index]
	if !ok {
		settings = pca9685.DefaultServoSettings()
	}
	return pca9685.NewServoChannelWithSettings(index, settings)
}

// Resolve turns a LineConfig into a chip name and line offset.
func (l LineConfig) Resolve() (string, int, error) {
	chip := l.Chip
	if chip == "" {
		chip = io.DefaultChip
	}
	offset, err := io.ParseLine(l.Line)
	if err != nil {
		return "", 0, err
	}
	return chip, offset, nil
}
