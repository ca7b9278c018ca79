// Package config loads, validates and persists the trainer configuration.
// The file is JSON unless its name ends in .yml or .yaml.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"bitbraille/internal/buzzer"
	"bitbraille/internal/joystick"
	"bitbraille/internal/trainer"
)

// DefaultPath is the default filename for persisted configuration.
const DefaultPath = "config.json"

// Default Redis channels for letters in and results out.
const (
	DefaultLetterChannel = "bitbraille:letters"
	DefaultResultChannel = "bitbraille:results"
)

// Default returns the configuration written on first run: the stock pin-out
// and timings and a single admin user (password: "admin",
// which you should change immediately).
func Default() Config {
	return Config{
		HTTPPort: 8080,
		LogFile:  "events.log",
		TickMS:   50,
		Users: []User{
			{Username: "admin", PasswordHash: HashPassword("admin"), Admin: true},
		},
		Pins: Pins{
			ButtonA:    5,
			ButtonB:    6,
			BuzzerA:    21,
			BuzzerB:    10,
			StatusLED:  12,
			ADCAddress: 0x48,
		},
		Tones: Tones{VictoryHz: 1000, DefeatHz: 300, DurationMS: 500},
		Joystick: Joystick{
			UpThreshold:   1000,
			DownThreshold: 2100,
			Center:        2048,
			IntervalMS:    600,
		},
		Redis: Redis{
			Addr:          "localhost:6379",
			LetterChannel: DefaultLetterChannel,
			ResultChannel: DefaultResultChannel,
		},
	}
}

// ConfigManager wraps the loaded configuration and a mutex for concurrent
// access.  When modifying configuration, always go through Update so the
// change is persisted.
type ConfigManager struct {
	mu     sync.RWMutex
	path   string
	cfg    Config
	loaded bool
}

// NewConfigManager returns a manager for the file at path.  An empty path
// means DefaultPath.
func NewConfigManager(path string) *ConfigManager {
	if path == "" {
		path = DefaultPath
	}
	return &ConfigManager{path: path}
}

// Path returns the file backing the configuration.
func (cm *ConfigManager) Path() string {
	return cm.path
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// Load reads configuration from disk.  If the file does not exist, the
// default configuration is created and persisted.  The loaded configuration
// is validated.
func (cm *ConfigManager) Load() error {
	cm.mu.Lock()
	// If the config is already loaded in memory, release the lock and return.
	if cm.loaded {
		cm.mu.Unlock()
		return nil
	}
	data, err := os.ReadFile(cm.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cm.cfg = Default()
			cm.loaded = true
			// Release the write lock before saving to avoid deadlock: Save
			// acquires a read lock on the same mutex.
			cm.mu.Unlock()
			return cm.Save()
		}
		cm.mu.Unlock()
		return fmt.Errorf("unable to read config: %w", err)
	}
	cfg := Default()
	if isYAML(cm.path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("invalid %s: %w", cm.path, err)
	}
	if err := cfg.Validate(); err != nil {
		cm.mu.Unlock()
		return fmt.Errorf("invalid %s: %w", cm.path, err)
	}
	cm.cfg = cfg
	cm.loaded = true
	cm.mu.Unlock()
	return nil
}

// Save writes the configuration to disk through a temporary file so that a
// crash never leaves a half written config behind.
func (cm *ConfigManager) Save() error {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var (
		data []byte
		err  error
	)
	if isYAML(cm.path) {
		data, err = yaml.Marshal(cm.cfg)
	} else {
		data, err = json.MarshalIndent(cm.cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	tmpPath := cm.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, cm.path)
}

// Get returns a copy of the current configuration.  Callers must treat the
// returned Config as immutable.
func (cm *ConfigManager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.cfg
}

// Update applies fn to the configuration under the write lock, validates the
// result and persists it.  The updater must not capture the pointer beyond
// the scope of the function.  A failed update leaves the configuration as it
// was.
func (cm *ConfigManager) Update(fn func(*Config) error) error {
	cm.mu.Lock()
	next := cm.cfg
	next.Users = append([]User(nil), cm.cfg.Users...)
	if err := fn(&next); err != nil {
		cm.mu.Unlock()
		return err
	}
	if err := next.Validate(); err != nil {
		cm.mu.Unlock()
		return err
	}
	cm.cfg = next
	// Release the lock before saving to avoid deadlock: Save acquires a read
	// lock on the same mutex.
	cm.mu.Unlock()
	return cm.Save()
}

// FindUser returns a user and its index by username.  If not found, index
// will be -1.
func (cm *ConfigManager) FindUser(username string) (User, int) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	for i, u := range cm.cfg.Users {
		if u.Username == username {
			return u, i
		}
	}
	return User{}, -1
}

// Authenticate checks whether the provided username and password are valid.
// It returns the user object if authentication succeeds.
func (cm *ConfigManager) Authenticate(username, password string) (User, error) {
	user, _ := cm.FindUser(username)
	if user.Username == "" {
		return User{}, errors.New("invalid credentials")
	}
	if err := CheckPasswordHash(password, user.PasswordHash); err != nil {
		return User{}, errors.New("invalid credentials")
	}
	return user, nil
}

// Validate checks the configuration for values the trainer cannot work with.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port %d is out of range", c.HTTPPort)
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file is required")
	}
	if c.TickMS <= 0 {
		return fmt.Errorf("tick_ms must be positive")
	}

	// every GPIO is used for exactly one thing
	pins := map[string]int{
		"button_a":   c.Pins.ButtonA,
		"button_b":   c.Pins.ButtonB,
		"buzzer_a":   c.Pins.BuzzerA,
		"buzzer_b":   c.Pins.BuzzerB,
		"status_led": c.Pins.StatusLED,
	}
	seen := make(map[int]string)
	for name, pin := range pins {
		if pin < 0 || pin > 27 {
			return fmt.Errorf("pins.%s: GPIO%d does not exist", name, pin)
		}
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("pins.%s and pins.%s both use GPIO%d", name, other, pin)
		}
		seen[pin] = name
	}
	if c.Pins.JoystickChannel < 0 || c.Pins.JoystickChannel > 3 {
		return fmt.Errorf("pins.joystick_channel must be between 0 and 3")
	}

	if _, err := buzzer.ConfigFor(c.Tones.VictoryHz); err != nil {
		return fmt.Errorf("tones.victory_hz: %w", err)
	}
	if _, err := buzzer.ConfigFor(c.Tones.DefeatHz); err != nil {
		return fmt.Errorf("tones.defeat_hz: %w", err)
	}
	if c.Tones.DurationMS <= 0 {
		return fmt.Errorf("tones.duration_ms must be positive")
	}
	if err := c.JoystickConfig().Validate(); err != nil {
		return err
	}

	for _, u := range c.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return fmt.Errorf("users need a username and a password hash")
		}
	}
	if c.Redis.Enabled {
		if c.Redis.Addr == "" || c.Redis.LetterChannel == "" {
			return fmt.Errorf("redis needs addr and letter_channel when enabled")
		}
	}
	return nil
}

// JoystickConfig converts the joystick section for the debouncer.
func (c Config) JoystickConfig() joystick.Config {
	return joystick.Config{
		UpThreshold:   c.Joystick.UpThreshold,
		DownThreshold: c.Joystick.DownThreshold,
		Center:        c.Joystick.Center,
		Interval:      time.Duration(c.Joystick.IntervalMS) * time.Millisecond,
	}
}

// TrainerConfig converts the tones and joystick sections for the trainer.
func (c Config) TrainerConfig() trainer.Config {
	return trainer.Config{
		VictoryHz:    c.Tones.VictoryHz,
		DefeatHz:     c.Tones.DefeatHz,
		ToneDuration: time.Duration(c.Tones.DurationMS) * time.Millisecond,
		Joystick:     c.JoystickConfig(),
	}
}

// TickInterval is the main loop period.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}
