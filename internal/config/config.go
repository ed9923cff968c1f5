// Package config handles loading and saving livevote configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/classify"
	"github.com/f3rmion/livevote/internal/textnorm"
	"github.com/f3rmion/livevote/internal/vote"
	"gopkg.in/yaml.v3"
)

// DefaultDomain is the aggregation service used when none is configured.
const DefaultDomain = "http://localhost:3900"

// Default option colors, in option order.
var DefaultColors = []string{"#4caf50", "#f44336", "#2196f3"}

// Config holds everything needed to run a live vote.
type Config struct {
	Domain       string         `yaml:"domain"`              // Aggregation service root
	Relay        string         `yaml:"relay,omitempty"`     // WebSocket relay URL for streaming mode
	Title        string         `yaml:"title,omitempty"`     // Free-form heading
	Subtitle     string         `yaml:"subtitle,omitempty"`  // Free-form second line
	Interval     time.Duration  `yaml:"interval,omitempty"`  // Time between polls
	Timeout      time.Duration  `yaml:"timeout,omitempty"`   // Per-request timeout
	Tokenizer    textnorm.Mode  `yaml:"tokenizer,omitempty"` // auto, unicode or ascii
	Romanize     bool           `yaml:"romanize,omitempty"`  // Transliterate Han text before matching
	ClearOnStart bool           `yaml:"clear_on_start"`      // Call clear-chat before polling
	Options      []OptionConfig `yaml:"options"`             // Vote options in evaluation order
}

// OptionConfig describes one vote option as written in a config file.
type OptionConfig struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Words    string   `yaml:"words,omitempty"`    // Delimited list, ',' or '|'
	Synonyms []string `yaml:"synonyms,omitempty"` // Same as Words, one entry per item
	Color    string   `yaml:"color,omitempty"`
}

// Default returns the stock Yes/No configuration.
func Default() Config {
	return Config{
		Domain:       DefaultDomain,
		Interval:     time.Second,
		Timeout:      5 * time.Second,
		Tokenizer:    textnorm.ModeAuto,
		ClearOnStart: true,
		Options: []OptionConfig{
			{ID: string(vote.OptionYes), Label: "Yes", Color: DefaultColors[0]},
			{ID: string(vote.OptionNo), Label: "No", Color: DefaultColors[1]},
		},
	}
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a 6-digit hex color and returns it in
// canonical "#rrggbb" form.
func ValidColor(s string) (string, bool) {
	m := hexColor.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return "#" + strings.ToLower(m[1]), true
}

// Validate checks the configuration for errors that would make a vote
// meaningless. Invalid colors are not errors; they fall back to defaults.
func (c Config) Validate() error {
	u, err := url.Parse(c.Domain)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid domain %q: want an http(s) URL", c.Domain)
	}
	if c.Relay != "" {
		r, err := url.Parse(c.Relay)
		if err != nil || (r.Scheme != "ws" && r.Scheme != "wss") {
			return fmt.Errorf("invalid relay %q: want a ws(s) URL", c.Relay)
		}
	}
	if n := len(c.Options); n < 2 || n > 3 {
		return fmt.Errorf("need two or three options, got %d", n)
	}
	seen := make(map[string]bool)
	for i, o := range c.Options {
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("option %d: empty label", i+1)
		}
		id := o.ID
		if id == "" {
			id = defaultID(i)
		}
		if seen[id] {
			return fmt.Errorf("option %d: duplicate id %q", i+1, id)
		}
		seen[id] = true
	}
	switch c.Tokenizer {
	case "", textnorm.ModeAuto, textnorm.ModeUnicode, textnorm.ModeASCII:
	default:
		return fmt.Errorf("unknown tokenizer %q", c.Tokenizer)
	}
	return nil
}

// VoteOptions converts the option configs into classifier options. Missing
// IDs get positional defaults and invalid colors get the default color.
func (c Config) VoteOptions() []vote.Option {
	out := make([]vote.Option, len(c.Options))
	for i, o := range c.Options {
		id := o.ID
		if id == "" {
			id = defaultID(i)
		}

		var synonyms []string
		if o.Words != "" {
			synonyms = append(synonyms, classify.ParseSynonyms(o.Words)...)
		}
		synonyms = append(synonyms, o.Synonyms...)

		color := defaultColor(i)
		if valid, ok := ValidColor(o.Color); ok {
			color = valid
		}

		out[i] = vote.Option{
			ID:       vote.OptionID(id),
			Label:    strings.TrimSpace(o.Label),
			Synonyms: synonyms,
			Color:    color,
		}
	}
	return out
}

// NewClassifier builds the classifier described by the configuration.
func (c Config) NewClassifier() *classify.Classifier {
	opts := []classify.Option{classify.WithTokenizer(textnorm.NewTokenizer(c.Tokenizer))}
	if c.Romanize {
		opts = append(opts, classify.WithRomanizer(textnorm.NewRomanizer()))
	}
	return classify.New(c.VoteOptions(), opts...)
}

func defaultID(i int) string {
	switch i {
	case 0:
		return string(vote.OptionYes)
	case 1:
		return string(vote.OptionNo)
	case 2:
		return string(vote.OptionOther)
	default:
		return "option" + strconv.Itoa(i+1)
	}
}

func defaultColor(i int) string {
	if i < len(DefaultColors) {
		return DefaultColors[i]
	}
	return DefaultColors[len(DefaultColors)-1]
}

// Load reads a configuration file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	cfg.Options = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if len(cfg.Options) == 0 {
		cfg.Options = Default().Options
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultDomain
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(path string, cfg Config) error {
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// LoadOrDefault loads path, returning the default configuration when the
// file does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "livevote"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
