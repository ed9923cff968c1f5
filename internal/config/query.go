package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/vote"
)

// Query parameter aliases accepted by the browser widgets, per option slot.
var (
	labelKeys = [3][]string{{"optionA", "yesLabel", "yes"}, {"optionB", "noLabel", "no"}, {"optionC", "optionLabel"}}
	wordKeys  = [3][]string{{"yesWords", "optionAWords", "wordsA"}, {"noWords", "optionBWords", "wordsB"}, {"optionCWords", "wordsC"}}
	colorKeys = [3][]string{{"yesColor", "colorA"}, {"noColor", "colorB"}, {"optionCColor", "colorC"}}
)

// FromQuery applies widget-style query parameters on top of base. Unknown
// parameters are ignored and invalid colors leave the default in place.
func FromQuery(base Config, q url.Values) Config {
	cfg := base
	cfg.Options = append([]OptionConfig(nil), base.Options...)

	if v := strings.TrimSpace(q.Get("domain")); v != "" {
		cfg.Domain = v
	}
	if v := strings.TrimSpace(q.Get("relay")); v != "" {
		cfg.Relay = v
	}
	if v := q.Get("title"); v != "" {
		cfg.Title = v
	}
	if v := q.Get("subtitle"); v != "" {
		cfg.Subtitle = v
	}
	if d, ok := parseInterval(q.Get("interval")); ok {
		cfg.Interval = d
	}

	// A third option only exists when a label for it is supplied.
	if first(q, labelKeys[2]) != "" && len(cfg.Options) < 3 {
		for len(cfg.Options) < 3 {
			i := len(cfg.Options)
			cfg.Options = append(cfg.Options, OptionConfig{ID: defaultID(i), Color: defaultColor(i)})
		}
		cfg.Options[2].ID = string(vote.OptionOther)
	}

	for i := range cfg.Options {
		if i >= len(labelKeys) {
			break
		}
		if v := first(q, labelKeys[i]); v != "" {
			cfg.Options[i].Label = v
		}
		if v := first(q, wordKeys[i]); v != "" {
			cfg.Options[i].Words = v
			cfg.Options[i].Synonyms = nil
		}
		if c, ok := ValidColor(first(q, colorKeys[i])); ok {
			cfg.Options[i].Color = c
		}
	}

	return cfg
}

// ParseQuery parses a raw query string ("?optionA=Sim&domain=...") and
// applies it to base.
func ParseQuery(base Config, raw string) (Config, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return base, err
	}
	return FromQuery(base, q), nil
}

func first(q url.Values, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// parseInterval accepts a Go duration ("800ms") or plain milliseconds.
func parseInterval(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	if ms, err := strconv.Atoi(s); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}
