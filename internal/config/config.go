package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/qcss/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "qcss.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "QCSS_"

	DefaultManifestPath = "dist/qcss-manifest.json"
	DefaultIDAttr       = "q-id"
	DefaultRefAttr      = "data-ref"
	DefaultKeyAttr      = "key"
	DefaultFlipDuration = "300ms"
	DefaultFlipEasing   = "cubic-bezier(0.2, 0, 0.2, 1)"
	DefaultMaxDepth     = 100
	DefaultPreviewHost  = "localhost"
	DefaultPreviewPort  = 4300
	DefaultPagesDir     = "pages"
)

// Config is the complete qcss.json configuration.
type Config struct {
	Manifest   ManifestConfig   `json:"manifest" envPrefix:"MANIFEST_"`
	Attributes AttributesConfig `json:"attributes" envPrefix:"ATTR_"`
	Flip       FlipConfig       `json:"flip" envPrefix:"FLIP_"`
	Reactive   ReactiveConfig   `json:"reactive" envPrefix:"REACTIVE_"`
	Log        LogConfig        `json:"log" envPrefix:"LOG_"`
	Preview    PreviewConfig    `json:"preview" envPrefix:"PREVIEW_"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// ManifestConfig says where the path-to-identifier manifest lives.
type ManifestConfig struct {
	// Path is the manifest file, relative to the config directory.
	Path string `json:"path,omitempty" env:"PATH"`

	// Format forces "json" or "yaml"; empty means by file extension.
	Format string `json:"format,omitempty" env:"FORMAT"`

	// Watch reloads the manifest when the file changes.
	Watch bool `json:"watch,omitempty" env:"WATCH"`

	// S3, when Bucket is set, replaces Path as the manifest source.
	S3 S3Config `json:"s3,omitempty" envPrefix:"S3_"`
}

// S3Config locates a manifest object in S3 or an S3-compatible store.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" env:"BUCKET"`
	Key      string `json:"key,omitempty" env:"KEY"`
	Region   string `json:"region,omitempty" env:"REGION"`
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`
}

// AttributesConfig names the DOM attributes the runtime reads and writes.
type AttributesConfig struct {
	// ID is the attribute receiving hashed identifiers.
	ID string `json:"id,omitempty" env:"ID"`

	// Ref is the legacy structural reference attribute.
	Ref string `json:"ref,omitempty" env:"REF"`

	// Key is the stable identity attribute for FLIP animations.
	Key string `json:"key,omitempty" env:"KEY"`
}

// FlipConfig tunes the layout animation.
type FlipConfig struct {
	Duration string `json:"duration,omitempty" env:"DURATION"`
	Easing   string `json:"easing,omitempty" env:"EASING"`
}

// ReactiveConfig tunes the signal runtime.
type ReactiveConfig struct {
	// MaxDepth bounds nested notification passes; 0 means the default.
	MaxDepth int `json:"maxDepth,omitempty" env:"MAX_DEPTH"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Host  string `json:"host,omitempty" env:"HOST"`
	Port  int    `json:"port,omitempty" env:"PORT"`
	Pages string `json:"pages,omitempty" env:"PAGES"`
}

// New returns a Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads qcss.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path and applies environment
// overrides on top of it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E123").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or rely on defaults with LoadOrDefault")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		qe := errors.New("E120").Wrap(err).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
		var syntax *json.SyntaxError
		if stderrors.As(err, &syntax) {
			qe.WithOffset(path, data, syntax.Offset)
		}
		return nil, qe
	}

	cfg.configPath = path
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault loads qcss.json from dir, falling back to defaults (plus
// environment overrides) when the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err == nil {
		return cfg, nil
	}
	var qe *errors.QError
	if !stderrors.As(err, &qe) || qe.Code != "E123" {
		return nil, err
	}

	cfg = &Config{configPath: filepath.Join(dir, ConfigFileName)}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// ApplyEnv overrides fields from QCSS_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("E121").Wrap(err)
	}
	return nil
}

// Save writes the configuration back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Manifest.Path == "" {
		c.Manifest.Path = DefaultManifestPath
	}
	if c.Manifest.S3.Bucket != "" && c.Manifest.S3.Key == "" {
		c.Manifest.S3.Key = filepath.ToSlash(c.Manifest.Path)
	}

	if c.Attributes.ID == "" {
		c.Attributes.ID = DefaultIDAttr
	}
	if c.Attributes.Ref == "" {
		c.Attributes.Ref = DefaultRefAttr
	}
	if c.Attributes.Key == "" {
		c.Attributes.Key = DefaultKeyAttr
	}

	if c.Flip.Duration == "" {
		c.Flip.Duration = DefaultFlipDuration
	}
	if c.Flip.Easing == "" {
		c.Flip.Easing = DefaultFlipEasing
	}

	if c.Reactive.MaxDepth == 0 {
		c.Reactive.MaxDepth = DefaultMaxDepth
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Preview.Host == "" {
		c.Preview.Host = DefaultPreviewHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPreviewPort
	}
	if c.Preview.Pages == "" {
		c.Preview.Pages = DefaultPagesDir
	}
}

// Validate checks the configuration for values the runtime cannot use.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("E122").WithDetail("preview.port must be between 0 and 65535")
	}
	if d, err := time.ParseDuration(c.Flip.Duration); err != nil || d < 0 {
		return errors.New("E122").
			WithDetailf("flip.duration %q is not a non-negative duration", c.Flip.Duration).
			WithSuggestion(`Use a Go duration such as "300ms"`)
	}
	if c.Reactive.MaxDepth < 0 {
		return errors.New("E122").WithDetail("reactive.maxDepth must not be negative")
	}
	for name, v := range map[string]string{
		"attributes.id":  c.Attributes.ID,
		"attributes.ref": c.Attributes.Ref,
		"attributes.key": c.Attributes.Key,
	} {
		if strings.ContainsAny(v, " \t\"'=<>") {
			return errors.New("E122").WithDetailf("%s %q is not a valid attribute name", name, v)
		}
	}
	switch strings.ToLower(c.Manifest.Format) {
	case "", "json", "yaml", "yml":
	default:
		return errors.New("E122").WithDetailf("manifest.format %q must be json or yaml", c.Manifest.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E122").WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// ManifestPath returns the manifest file path resolved against the config
// directory.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Manifest.Path)
}

// PagesPath returns the preview pages directory resolved against the
// config directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Preview.Pages)
}

// UsesS3 reports whether the manifest is fetched from S3.
func (c *Config) UsesS3() bool {
	return c.Manifest.S3.Bucket != ""
}

// FlipDuration parses flip.duration, falling back to the default.
func (c *Config) FlipDuration() time.Duration {
	if d, err := time.ParseDuration(c.Flip.Duration); err == nil && d >= 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultFlipDuration)
	return d
}

// PreviewAddress returns host:port for the preview server.
func (c *Config) PreviewAddress() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists reports whether qcss.json exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
