package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"bonnetje/internal/bus"
	"bonnetje/internal/escpos"
)

// Environment variables.
const (
	EnvUsername = "MQTT_USERNAME"
	EnvPassword = "MQTT_PASSWORD"
	EnvHost     = "MQTT_HOST"
	EnvPort     = "MQTT_PORT"
	EnvTopic    = "BONNETJE_TOPIC"
	EnvClientID = "BONNETJE_CLIENT_ID"
	EnvLogLevel = "BONNETJE_LOG_LEVEL"
)

// Defaults.
const (
	DefaultTopic        = "bonprinter/bonnetje"
	DefaultClientID     = "bonnetje-daemon"
	DefaultKeepAlive    = 5 * time.Second
	DefaultConnTimeout  = 30 * time.Second
	DefaultVendorID     = 0x0404
	DefaultProductID    = 0x0312
	DefaultWriteTimeout = 10 * time.Second
)

// Config holds runtime wiring options for building the daemon.
type Config struct {
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Printer PrinterConfig `yaml:"printer"`
	Log     LogConfig     `yaml:"log"`
}

// MQTTConfig describes the broker connection.
type MQTTConfig struct {
	Host           string        `yaml:"host"`
	Port           uint16        `yaml:"port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	ClientID       string        `yaml:"client_id"`
	Topic          string        `yaml:"topic"`
	KeepAlive      time.Duration `yaml:"keep_alive"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// PrinterConfig describes the USB receipt printer. An empty TimestampLayout
// prints the footer with render.FormatTimestamp.
type PrinterConfig struct {
	VendorID        uint16        `yaml:"vendor_id"`
	ProductID       uint16        `yaml:"product_id"`
	CodePage        string        `yaml:"code_page"` // empty: raw UTF-8
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	TimestampLayout string        `yaml:"timestamp_layout"`
}

// LogConfig selects the log level (debug, info, warn, error) and format
// (text, json).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns every setting that has a default.
func DefaultConfig() Config {
	return Config{
		MQTT: MQTTConfig{
			ClientID:       DefaultClientID,
			Topic:          DefaultTopic,
			KeepAlive:      DefaultKeepAlive,
			ConnectTimeout: DefaultConnTimeout,
		},
		Printer: PrinterConfig{
			VendorID:     DefaultVendorID,
			ProductID:    DefaultProductID,
			WriteTimeout: DefaultWriteTimeout,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadOptions names the optional files Load reads.
type LoadOptions struct {
	ConfigFile string // YAML; a missing file is not an error
	EnvFile    string // dotenv; a missing file is not an error

	// PrinterOnly skips the broker settings, for local test prints.
	PrinterOnly bool
}

// Load builds a validated Config: defaults, then the YAML file, then the
// environment (after loading the .env file, which never overrides variables
// already set).
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	if opts.ConfigFile != "" {
		b, err := readFile(opts.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if b != nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", opts.ConfigFile, err)
			}
		}
	}

	if opts.EnvFile != "" {
		if err := loadDotEnv(opts.EnvFile); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", opts.EnvFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(!opts.PrinterOnly); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.MQTT.Username, EnvUsername)
	set(&cfg.MQTT.Password, EnvPassword)
	set(&cfg.MQTT.Host, EnvHost)
	set(&cfg.MQTT.Topic, EnvTopic)
	set(&cfg.MQTT.ClientID, EnvClientID)
	set(&cfg.Log.Level, EnvLogLevel)

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16)
		if err != nil {
			return fmt.Errorf("%s=%q: expected a port number: %w", EnvPort, v, err)
		}
		cfg.MQTT.Port = uint16(port)
	}
	return nil
}

// Validate reports every missing or invalid setting at once.
func (c Config) Validate() error { return c.validate(true) }

func (c Config) validate(withBus bool) error {
	var errs []error
	missing := func(v, name string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("missing %s", name))
		}
	}
	if withBus {
		missing(c.MQTT.Username, "MQTT username ("+EnvUsername+")")
		missing(c.MQTT.Password, "MQTT password ("+EnvPassword+")")
		missing(c.MQTT.Host, "MQTT host ("+EnvHost+")")
		if c.MQTT.Port == 0 {
			errs = append(errs, fmt.Errorf("missing MQTT port (%s)", EnvPort))
		}
		missing(c.MQTT.Topic, "MQTT topic")
		missing(c.MQTT.ClientID, "MQTT client id")
		if c.MQTT.KeepAlive < time.Second {
			errs = append(errs, fmt.Errorf("keep-alive %s is below 1s", c.MQTT.KeepAlive))
		}
	}
	if c.Printer.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("negative printer write timeout %s", c.Printer.WriteTimeout))
	}
	if _, err := escpos.LookupCodePage(c.Printer.CodePage); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Bus returns the broker settings for the bus package.
func (c Config) Bus() bus.Config {
	return bus.Config{
		Host:           c.MQTT.Host,
		Port:           c.MQTT.Port,
		Username:       c.MQTT.Username,
		Password:       c.MQTT.Password,
		ClientID:       c.MQTT.ClientID,
		Topic:          c.MQTT.Topic,
		QoS:            0,
		KeepAlive:      c.MQTT.KeepAlive,
		ConnectTimeout: c.MQTT.ConnectTimeout,
	}
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// readFile reads the file at path; a missing file is not an error.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
