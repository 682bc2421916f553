package config

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brogergvhs/comicsd/internal/comics"
	"github.com/brogergvhs/comicsd/internal/dates"
	"github.com/brogergvhs/comicsd/internal/games"
	"github.com/brogergvhs/comicsd/internal/util"
)

// Window overrides a source's publishing range. Dates use YYYY-MM-DD;
// an empty field keeps the built-in value.
type Window struct {
	Start string `yaml:"start,omitempty"`
	End   string `yaml:"end,omitempty"`
}

type Config struct {
	Output   string        `yaml:"output"`
	Timeout  time.Duration `yaml:"timeout"`
	Debug    bool          `yaml:"debug"`
	Progress bool          `yaml:"progress"`
	Colors   bool          `yaml:"colors"`

	Cookie           string `yaml:"cookie"`
	CookieFile       string `yaml:"cookie_file"`
	UserAgent        string `yaml:"user_agent"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`

	CacheTTL      time.Duration `yaml:"cache_ttl"`
	DetailWorkers int           `yaml:"detail_workers"`
	PageSize      int           `yaml:"page_size"`
	RawgBaseURL   string        `yaml:"rawg_base_url"`
	RawgAPIKey    string        `yaml:"rawg_api_key"`

	BaseURLs map[string]string `yaml:"base_urls,omitempty"`
	Windows  map[string]Window `yaml:"windows,omitempty"`
}

type Options struct {
	IgnoreConfig  bool
	Debug         bool
	Output        string
	Timeout       time.Duration
	UserAgent     string
	Progress      bool
	DetailWorkers int
	PageSize      int
}

const defaultPageSize = 5

func DefaultConfig() *Config {
	return &Config{
		Output:        ".",
		Timeout:       util.DefaultTimeout,
		Debug:         false,
		Progress:      false,
		Colors:        true,
		CacheTTL:      games.DefaultCacheTTL,
		DetailWorkers: 1,
		PageSize:      defaultPageSize,
		RawgBaseURL:   games.DefaultBaseURL,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadMerged layers CLI flags over the active profile over the defaults.
// The second return value says where the settings came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `comicsd config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Progress {
		c.Progress = true
	}
	if o.DetailWorkers != 0 {
		c.DetailWorkers = o.DetailWorkers
	}
	if o.PageSize != 0 {
		c.PageSize = o.PageSize
	}
}

func normalizeDefaults(c *Config) {
	if c.Output == "" {
		c.Output = "."
	}
	if c.Timeout <= 0 {
		c.Timeout = util.DefaultTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = games.DefaultCacheTTL
	}
	if c.DetailWorkers < 1 {
		c.DetailWorkers = 1
	}
	if c.PageSize < 1 {
		c.PageSize = defaultPageSize
	}
	if strings.TrimSpace(c.RawgBaseURL) == "" {
		c.RawgBaseURL = games.DefaultBaseURL
	}
}

// CatalogOptions converts the per-source overrides for comics.NewCatalog.
func (c *Config) CatalogOptions() (comics.CatalogOptions, error) {
	opts := comics.CatalogOptions{BaseURLs: c.BaseURLs}
	if len(c.Windows) == 0 {
		return opts, nil
	}

	opts.Windows = make(map[string]comics.WindowOverride, len(c.Windows))
	for id, w := range c.Windows {
		var o comics.WindowOverride
		var err error

		if w.Start != "" {
			if o.Start, err = time.Parse(dates.ISO, w.Start); err != nil {
				return comics.CatalogOptions{}, fmt.Errorf("windows.%s.start: %w", id, err)
			}
		}
		if w.End != "" {
			if o.End, err = time.Parse(dates.ISO, w.End); err != nil {
				return comics.CatalogOptions{}, fmt.Errorf("windows.%s.end: %w", id, err)
			}
		}

		opts.Windows[id] = o
	}

	return opts, nil
}

func (c *Config) Print(w io.Writer) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(w, format, args...) }

	p(" -output: %s\n", c.Output)
	p(" -timeout: %s\n", c.Timeout)
	if c.Debug {
		p(" -debug: %t\n", c.Debug)
	}
	if c.Progress {
		p(" -progress: %t\n", c.Progress)
	}
	if !c.Colors {
		p(" -colors: %t\n", c.Colors)
	}
	if c.UserAgent != "" {
		p(" -user_agent: %s\n", c.UserAgent)
	}
	if c.CookieFile != "" {
		p(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.CloudflareBypass {
		p(" -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	p(" -cache_ttl: %s\n", c.CacheTTL)
	p(" -detail_workers: %d\n", c.DetailWorkers)
	p(" -page_size: %d\n", c.PageSize)
	p(" -rawg_base_url: %s\n", c.RawgBaseURL)
	if c.RawgAPIKey != "" {
		p(" -rawg_api_key: (set)\n")
	}
	for _, id := range slices.Sorted(maps.Keys(c.BaseURLs)) {
		p(" -base_urls.%s: %s\n", id, c.BaseURLs[id])
	}
	for _, id := range slices.Sorted(maps.Keys(c.Windows)) {
		win := c.Windows[id]
		p(" -windows.%s: %s..%s\n", id, win.Start, win.End)
	}
}
