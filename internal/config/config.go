// Package config loads the optional vestdates configuration file.
//
// YAML (.yaml, .yml) and JSON with comments (.json, .jsonc) are accepted.
// Every field is optional; anything left out falls back to the built-in
// defaults, so an empty file behaves like no file at all.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Anchor string        `yaml:"anchor" json:"anchor"`
	Step   string        `yaml:"step" json:"step"`
	Count  *int          `yaml:"count" json:"count"`
	Format string        `yaml:"format" json:"format"`
	Grants []GrantConfig `yaml:"grants" json:"grants"`
}

// GrantConfig declares one grant. Instants accept integer nanoseconds or
// RFC 3339; durations accept integer nanoseconds, Go durations, or a
// day/month count such as "180d" or "24mo".
type GrantConfig struct {
	Name      string `yaml:"name" json:"name"`
	Owner     string `yaml:"owner" json:"owner"`
	Recipient string `yaml:"recipient" json:"recipient"`
	Token     string `yaml:"token" json:"token"`
	Amount    string `yaml:"amount" json:"amount"`
	Claimed   string `yaml:"claimed" json:"claimed"`
	Start     string `yaml:"start" json:"start"`
	Duration  string `yaml:"duration" json:"duration"`
	Cliff     string `yaml:"cliff" json:"cliff"`
	Revocable bool   `yaml:"revocable" json:"revocable"`
	// Created is when the grant was set up; defaults to Start.
	Created string `yaml:"created" json:"created"`
}

// Load reads and decodes the file at path from fsys.
func Load(fsys afero.Fs, path string) (*Config, error) {
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if len(strings.TrimSpace(string(b))) == 0 {
			return &cfg, nil
		}
		if err := json.Unmarshal(jsonc.ToJSON(b), &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	return &cfg, nil
}

// Schedule applies the file's overrides on top of base.
func (c *Config) Schedule(base domain.Schedule) (domain.Schedule, error) {
	s := base
	if c.Anchor != "" {
		v, err := ParseInstant(c.Anchor)
		if err != nil {
			return s, fmt.Errorf("anchor: %w", err)
		}
		s.Anchor = v
	}
	if c.Step != "" {
		v, err := ParseDuration(c.Step)
		if err != nil {
			return s, fmt.Errorf("step: %w", err)
		}
		s.Step = v
	}
	if c.Count != nil {
		s.Count = *c.Count
	}
	return s, s.Validate()
}

// GrantParams converts gc into domain parameters and the creation instant
// NewGrant validates against.
func (gc GrantConfig) GrantParams() (domain.GrantParams, int64, error) {
	p := domain.GrantParams{
		Name:      gc.Name,
		Owner:     gc.Owner,
		Recipient: gc.Recipient,
		Token:     gc.Token,
		Revocable: gc.Revocable,
	}
	if gc.Name == "" {
		return p, 0, fmt.Errorf("%w: grant without a name", domain.ErrInvalidGrant)
	}
	var err error
	if p.Amount, err = parseAmount(gc.Amount); err != nil {
		return p, 0, fmt.Errorf("grant %s amount: %w", gc.Name, err)
	}
	if p.Claimed, err = parseAmount(gc.Claimed); err != nil {
		return p, 0, fmt.Errorf("grant %s claimed: %w", gc.Name, err)
	}
	if p.Start, err = ParseInstant(gc.Start); err != nil {
		return p, 0, fmt.Errorf("grant %s start: %w", gc.Name, err)
	}
	if p.Duration, err = ParseDuration(gc.Duration); err != nil {
		return p, 0, fmt.Errorf("grant %s duration: %w", gc.Name, err)
	}
	if gc.Cliff != "" {
		if p.CliffDuration, err = ParseDuration(gc.Cliff); err != nil {
			return p, 0, fmt.Errorf("grant %s cliff: %w", gc.Name, err)
		}
	}
	created := p.Start
	if gc.Created != "" {
		if created, err = ParseInstant(gc.Created); err != nil {
			return p, 0, fmt.Errorf("grant %s created: %w", gc.Name, err)
		}
	}
	return p, created, nil
}

// Instants must fit int64 nanoseconds since the epoch.
var (
	minInstant = time.Unix(0, math.MinInt64).UTC()
	maxInstant = time.Unix(0, math.MaxInt64).UTC()
)

// ParseInstant accepts integer nanoseconds since the epoch or an RFC 3339
// timestamp.
func ParseInstant(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty instant")
	}
	if n, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("instant %q is neither nanoseconds nor RFC 3339", s)
	}
	if t.Before(minInstant) || t.After(maxInstant) {
		return 0, fmt.Errorf("%w: instant %q is outside %d..%d years", domain.ErrOverflow, s, minInstant.Year(), maxInstant.Year())
	}
	return t.UnixNano(), nil
}

// ParseDuration accepts integer nanoseconds, a Go duration ("720h"), whole
// days ("30d") or whole average months ("24mo").
func ParseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 10, 64); err == nil {
		return n, nil
	}
	for _, u := range []struct {
		suffix string
		unit   int64
	}{
		{"mo", domain.AverageMonth},
		{"d", 24 * 60 * 60 * domain.NanosPerSecond},
	} {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSuffix(s, u.suffix), 10, 64)
		if err != nil {
			break
		}
		return domain.CheckedMul(n, u.unit)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", s, err)
	}
	return int64(d), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	if err != nil {
		return d, err
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is not a whole number of base units", domain.ErrInvalidGrant, s)
	}
	return d, nil
}
