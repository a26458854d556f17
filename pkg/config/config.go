package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/yeargrid/pkg/category"
	"github.com/matzehuels/yeargrid/pkg/errors"
	"github.com/matzehuels/yeargrid/pkg/layout/stack"
	"github.com/matzehuels/yeargrid/pkg/layout/tooltip"
	"github.com/matzehuels/yeargrid/pkg/render"
)

const appName = "yeargrid"

// Display modes.
const (
	ModeDots  = render.ModeDots
	ModeStack = render.ModeStack
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultCacheTTL is used when cache.ttl is empty.
const DefaultCacheTTL = "168h"

// ruleNamespace seeds the deterministic ids of rules configured without one.
var ruleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/yeargrid/category"))

// Config is the whole configuration document.
type Config struct {
	Year             int             `toml:"year" yaml:"year"`
	Timezone         string          `toml:"timezone" yaml:"timezone"`
	MatchDescription bool            `toml:"match_description" yaml:"match_description"`
	Priority         []string        `toml:"priority" yaml:"priority"`
	Display          Display         `toml:"display" yaml:"display"`
	Tooltip          Tooltip         `toml:"tooltip" yaml:"tooltip"`
	Calendars        []Calendar      `toml:"calendars" yaml:"calendars"`
	Categories       []category.Rule `toml:"categories" yaml:"categories"`
	Cache            Cache           `toml:"cache" yaml:"cache"`
}

// Display selects how single-day events are drawn.
type Display struct {
	Mode    string        `toml:"mode" yaml:"mode"`
	Density stack.Density `toml:"density" yaml:"density"`
}

// Tooltip holds popup placement margins in pixels.
type Tooltip struct {
	Padding float64 `toml:"padding" yaml:"padding"`
	Offset  float64 `toml:"offset" yaml:"offset"`
}

// Calendar is one local event source.
type Calendar struct {
	ID    string `toml:"id" yaml:"id"`
	Name  string `toml:"name" yaml:"name"`
	Color string `toml:"color,omitempty" yaml:"color,omitempty"`
	Path  string `toml:"path" yaml:"path"`
}

// Cache configures the layout cache.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend"`
	RedisURL string `toml:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	TTL      string `toml:"ttl" yaml:"ttl"`
}

// TTLDuration parses TTL, falling back to DefaultCacheTTL.
func (c Cache) TTLDuration() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultCacheTTL)
	}
	return d
}

// DefaultConfig returns the configuration written by "yeargrid config init".
func DefaultConfig() *Config {
	return &Config{
		Year:     time.Now().Year(),
		Timezone: "UTC",
		Display:  Display{Mode: ModeDots, Density: stack.DensityNormal},
		Tooltip:  Tooltip{Padding: tooltip.DefaultPadding, Offset: tooltip.DefaultOffset},
		Cache:    Cache{Backend: CacheFile, TTL: DefaultCacheTTL},
		Categories: []category.Rule{
			{ID: "birthdays", Label: "Birthdays", Color: "#ec4899", Keywords: []string{"birthday", "bday"}},
			{ID: "holidays", Label: "Holidays", Color: "#0ea5e9", Keywords: []string{"vacation", "holiday", "flight", "trip"}},
			{ID: "family", Label: "Family", Color: "#f97316", Keywords: []string{"family", "mom", "dad"}},
		},
	}
}

// Normalize fills zero values with defaults and trims string fields.
func (c *Config) Normalize() {
	if c.Year == 0 {
		c.Year = time.Now().Year()
	}
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	c.Display.Mode = strings.ToLower(strings.TrimSpace(c.Display.Mode))
	if c.Display.Mode == "" {
		c.Display.Mode = ModeDots
	}
	c.Display.Density = stack.Density(strings.ToLower(strings.TrimSpace(string(c.Display.Density))))
	if c.Display.Density == "" {
		c.Display.Density = stack.DensityNormal
	}
	if c.Tooltip.Padding <= 0 {
		c.Tooltip.Padding = tooltip.DefaultPadding
	}
	if c.Tooltip.Offset <= 0 {
		c.Tooltip.Offset = tooltip.DefaultOffset
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = DefaultCacheTTL
	}
	for i := range c.Calendars {
		cal := &c.Calendars[i]
		cal.ID = strings.TrimSpace(cal.ID)
		cal.Path = strings.TrimSpace(cal.Path)
		if cal.ID == "" {
			cal.ID = strings.TrimSuffix(filepath.Base(cal.Path), filepath.Ext(cal.Path))
		}
		if cal.Name == "" {
			cal.Name = cal.ID
		}
	}
	for i := range c.Categories {
		r := &c.Categories[i]
		if strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.Label) != "" {
			r.ID = RuleID(r.Label)
		}
	}
}

// Validate checks every field except the category rules. It returns the
// first problem as a coded error.
func (c *Config) Validate() error {
	if err := errors.ValidateYear(c.Year); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "timezone %q", c.Timezone)
	}
	if err := errors.ValidateFormat(c.Display.Mode, ModeDots, ModeStack); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "display.mode")
	}
	if _, ok := stack.MetricsFor(c.Display.Density); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "display.density %q is not one of %v", c.Display.Density, stack.Densities())
	}

	seen := make(map[string]bool, len(c.Calendars))
	for _, cal := range c.Calendars {
		if err := errors.ValidatePath(cal.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "calendar %q", cal.ID)
		}
		if cal.Color != "" {
			if err := errors.ValidateColor(cal.Color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "calendar %q", cal.ID)
			}
		}
		if seen[cal.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate calendar id %q", cal.ID)
		}
		seen[cal.ID] = true
	}

	if err := errors.ValidateFormat(c.Cache.Backend, CacheFile, CacheRedis, CacheNone); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.backend")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	return nil
}

// Rules returns the usable category rules in priority order. Rules with an
// invalid label, no keywords, an invalid color or a duplicate id are
// skipped and reported.
func (c *Config) Rules() (category.Rules, []error) {
	var (
		valid []category.Rule
		errs  []error
		ids   = make(map[string]bool)
	)
	for _, raw := range c.Categories {
		r := category.NormalizeRule(raw)
		if r.ID == "" && r.Label != "" {
			r.ID = RuleID(r.Label)
		}
		if err := errors.ValidateLabel(r.Label); err != nil {
			errs = append(errs, errors.Wrap(errors.ErrCodeInvalidRule, err, "category %q", r.ID))
			continue
		}
		if len(r.Keywords) == 0 {
			errs = append(errs, errors.New(errors.ErrCodeInvalidRule, "category %q has no keywords", r.Label))
			continue
		}
		if err := errors.ValidateColor(r.Color); err != nil {
			errs = append(errs, errors.Wrap(errors.ErrCodeInvalidRule, err, "category %q", r.Label))
			continue
		}
		if ids[r.ID] {
			errs = append(errs, errors.New(errors.ErrCodeInvalidRule, "duplicate category id %q", r.ID))
			continue
		}
		ids[r.ID] = true
		valid = append(valid, r)
	}
	return category.NewRules(valid, c.Priority), errs
}

// Location returns the configured time zone, or UTC if it does not load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RuleID derives a stable id from a category label.
func RuleID(label string) string {
	return uuid.NewSHA1(ruleNamespace, []byte(strings.ToLower(strings.TrimSpace(label)))).String()
}

// DefaultPath returns $XDG_CONFIG_HOME/yeargrid/config.toml, or the
// platform's user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// ResolvePath expands a leading "~/" and makes path absolute relative to
// the directory of the config file at base.
func ResolvePath(base, path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(filepath.Dir(base), path)
	}
	return path
}
