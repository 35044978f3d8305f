package config

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/jsxdom/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "jsxdom.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 3100

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultRegion is the default S3 region.
	DefaultRegion = "us-east-1"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// Config represents the complete jsxdom.json configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`

	// Pretty indents rendered markup.
	Pretty bool `json:"pretty,omitempty"`

	// Components maps a component name to a descriptor document. The
	// document is built wherever a descriptor uses the name as its type.
	Components map[string]string `json:"components,omitempty"`

	// Preview contains preview server configuration.
	Preview PreviewConfig `json:"preview"`

	// Publish contains S3 publishing configuration.
	Publish PublishConfig `json:"publish"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Dir is the directory holding descriptor documents.
	Dir string `json:"dir,omitempty"`

	// HotReload reloads connected browsers when a document changes.
	HotReload bool `json:"hotReload"`

	// Ignore contains path patterns the watcher skips.
	Ignore []string `json:"ignore,omitempty"`
}

// PublishConfig contains S3 publishing settings.
type PublishConfig struct {
	// Bucket is the destination bucket.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel:   DefaultLogLevel,
		Components: map[string]string{},
		Preview: PreviewConfig{
			Host:      DefaultHost,
			Port:      DefaultPort,
			Dir:       ".",
			HotReload: true,
		},
		Publish: PublishConfig{
			Region: DefaultRegion,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for jsxdom.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No jsxdom.json found in " + filepath.Dir(path)).
				WithSuggestion("Create jsxdom.json in the project root, or run without one to use defaults")
		}
		return nil, errors.New("E140").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		e := errors.New("E140").
			WithDetail("Failed to parse jsxdom.json: " + err.Error()).
			WithSuggestion("Check that jsxdom.json is valid JSON")
		var se *json.SyntaxError
		if stderrors.As(err, &se) {
			// Offset counts the offending byte.
			line, col := lineCol(data, se.Offset-1)
			e = e.WithLocation(path, line, col)
		}
		return nil, e
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover walks up from startDir and loads the first jsxdom.json found.
// When there is none, it returns the defaults rooted at startDir.
func Discover(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		if errors.Code(err) != "E141" {
			return nil, err
		}
		cfg := New()
		if abs, err := filepath.Abs(startDir); err == nil {
			cfg.configPath = filepath.Join(abs, ConfigFileName)
		}
		return cfg, nil
	}
	return Load(root)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E140").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E140").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
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

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Components == nil {
		c.Components = map[string]string{}
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Dir == "" {
		c.Preview.Dir = "."
	}
	if c.Publish.Region == "" {
		c.Publish.Region = DefaultRegion
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("E140").
			WithDetail("preview.port must be between 0 and 65535, got " + strconv.Itoa(c.Preview.Port))
	}
	if _, err := c.SlogLevel(); err != nil {
		return errors.New("E140").
			WithDetail("logLevel must be debug, info, warn or error, got " + strconv.Quote(c.LogLevel))
	}
	for name, path := range c.Components {
		if name == "" || path == "" {
			return errors.New("E140").
				WithDetail("components entries need a name and a document path")
		}
	}
	return nil
}

// ValidatePublish checks the settings the publish command needs.
func (c *Config) ValidatePublish() error {
	if c.Publish.Bucket == "" {
		return errors.New("E140").
			WithDetail("publish.bucket is empty").
			WithSuggestion(`Set "publish": {"bucket": "..."} in jsxdom.json or pass --bucket`)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	return level, err
}

// Address returns the host:port address for the preview server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Preview.Host, strconv.Itoa(c.Preview.Port))
}

// URL returns the preview server URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// PreviewDir returns the absolute path to the preview document directory.
func (c *Config) PreviewDir() string {
	return c.resolve(c.Preview.Dir)
}

// ComponentPath returns the absolute path of a component document, and
// whether the component is configured.
func (c *Config) ComponentPath(name string) (string, bool) {
	path, ok := c.Components[name]
	if !ok {
		return "", false
	}
	return c.resolve(path), true
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing jsxdom.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No jsxdom.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// lineCol converts a byte offset to a 1-based line and column.
func lineCol(data []byte, offset int64) (int, int) {
	offset = max(0, min(offset, int64(len(data))))
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
