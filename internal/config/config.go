package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-assetpath/internal/dateutil"
	"github.com/alnah/go-assetpath/internal/fileutil"
	"github.com/alnah/go-assetpath/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid field value")
)

// Field length limits.
const (
	MaxTitleLength     = 200
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 1024
	MaxPatternLength   = 200 // permalink, asset_folder, cdn_folder templates
	MaxSelectorLength  = 500
	MaxAttributeLength = 100
	MaxSelectorCount   = 100
)

// DefaultName is the config name searched when none is given.
const DefaultName = "_config"

// Config is a hexo-style site configuration.
type Config struct {
	Title           string          `yaml:"title"`
	URL             string          `yaml:"url"`
	Root            string          `yaml:"root"`      // URL prefix of the site (default "/")
	Permalink       string          `yaml:"permalink"` // e.g. ":year/:month/:day/:title/"
	SourceDir       string          `yaml:"source_dir"`
	PublicDir       string          `yaml:"public_dir"`
	ThemeDir        string          `yaml:"theme_dir"` // Empty = embedded layout
	PostAssetFolder bool            `yaml:"post_asset_folder"`
	DateFormat      string          `yaml:"date_format"`
	TimeFormat      string          `yaml:"time_format"`
	Timezone        string          `yaml:"timezone"` // IANA name, empty = local
	AssetPath       AssetPathConfig `yaml:"asset_path"`
}

// AssetPathConfig is the asset_path section.
type AssetPathConfig struct {
	Enable      bool                 `yaml:"enable"`
	AssetFolder string               `yaml:"asset_folder"` // Template, e.g. "assets/{{.post_slug}}"
	EnableCDN   bool                 `yaml:"enable_cdn"`
	CDNFolder   string               `yaml:"cdn_folder"`
	CDNUseHTTPS bool                 `yaml:"cdn_use_https"`
	Selectors   yamlutil.StringPairs `yaml:"selectors"` // Ordered selector -> attribute
}

// Validate checks field lengths and formats. It does not check the
// asset_path requirements that depend on the render mode; those run per
// render event.
func (c *Config) Validate() error {
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("url", c.URL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("root", c.Root, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("permalink", c.Permalink, MaxPatternLength); err != nil {
		return err
	}
	if err := validateFieldLength("source_dir", c.SourceDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("public_dir", c.PublicDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("theme_dir", c.ThemeDir, MaxPathLength); err != nil {
		return err
	}

	if c.DateFormat != "" {
		if err := dateutil.ValidateFormat(c.DateFormat); err != nil {
			return fmt.Errorf("date_format: %w", err)
		}
	}
	if c.TimeFormat != "" {
		if err := dateutil.ValidateFormat(c.TimeFormat); err != nil {
			return fmt.Errorf("time_format: %w", err)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %v", ErrInvalidField, c.Timezone, err)
		}
	}

	return c.AssetPath.validate()
}

func (a *AssetPathConfig) validate() error {
	if err := validateFieldLength("asset_path.asset_folder", a.AssetFolder, MaxPatternLength); err != nil {
		return err
	}
	if err := validateFieldLength("asset_path.cdn_folder", a.CDNFolder, MaxPatternLength); err != nil {
		return err
	}

	if len(a.Selectors) > MaxSelectorCount {
		return fmt.Errorf("%w: asset_path.selectors has %d entries (max %d)", ErrInvalidField, len(a.Selectors), MaxSelectorCount)
	}
	for i, pair := range a.Selectors {
		if strings.TrimSpace(pair.Key) == "" {
			return fmt.Errorf("%w: asset_path.selectors[%d]: empty selector", ErrInvalidField, i)
		}
		if err := validateFieldLength(fmt.Sprintf("asset_path.selectors[%d]", i), pair.Key, MaxSelectorLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("asset_path.selectors[%d].attribute", i), pair.Value, MaxAttributeLength); err != nil {
			return err
		}
		if strings.ContainsAny(pair.Value, " \t\n\"'<>=/") {
			return fmt.Errorf("%w: asset_path.selectors[%d]: attribute %q", ErrInvalidField, i, pair.Value)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns hexo's defaults with asset path rewriting disabled.
func DefaultConfig() *Config {
	return &Config{
		Title:      "Blog",
		URL:        "http://example.com",
		Root:       "/",
		Permalink:  ":year/:month/:day/:title/",
		SourceDir:  "source",
		PublicDir:  "public",
		DateFormat: dateutil.DefaultDateFormat,
		TimeFormat: dateutil.DefaultTimeFormat,
	}
}

// Location returns the configured timezone, or time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Environment variables overriding config fields.
const (
	EnvAssetPathEnable = "ASSETPATH_ENABLE"
	EnvAssetFolder     = "ASSETPATH_ASSET_FOLDER"
	EnvEnableCDN       = "ASSETPATH_ENABLE_CDN"
	EnvCDNFolder       = "ASSETPATH_CDN_FOLDER"
	EnvCDNUseHTTPS     = "ASSETPATH_CDN_USE_HTTPS"
	EnvPostAssetFolder = "ASSETPATH_POST_ASSET_FOLDER"
)

// ApplyEnv overrides config fields from ASSETPATH_* variables. getenv is
// usually os.Getenv; empty values leave the field untouched.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	bools := []struct {
		name string
		dst  *bool
	}{
		{EnvAssetPathEnable, &c.AssetPath.Enable},
		{EnvEnableCDN, &c.AssetPath.EnableCDN},
		{EnvCDNUseHTTPS, &c.AssetPath.CDNUseHTTPS},
		{EnvPostAssetFolder, &c.PostAssetFolder},
	}
	for _, b := range bools {
		v := strings.TrimSpace(getenv(b.name))
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q (want true or false)", ErrInvalidField, b.name, v)
		}
		*b.dst = parsed
	}

	if v := getenv(EnvAssetFolder); v != "" {
		c.AssetPath.AssetFolder = v
	}
	if v := getenv(EnvCDNFolder); v != "" {
		c.AssetPath.CDNFolder = v
	}

	return c.AssetPath.validate()
}

// SearchPaths lists the files tried for a config name, in order.
// Extensions: .yml, .yaml. Locations: current directory, then
// <user config dir>/go-assetpath/.
func SearchPaths(name string) []string {
	extensions := []string{".yml", ".yaml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-assetpath", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
