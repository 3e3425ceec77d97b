package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvProduction is the [ServerConfig.Environment] value that enables Secure cookies.
const EnvProduction = "production"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
	HTTP        HTTPConfig        `toml:"http"`
	Features    FeatureConfig     `toml:"features"`
	Proxy       ProxyConfig       `toml:"proxy"`
	Cache       CacheConfig       `toml:"cache"`
	Limits      LimitsConfig      `toml:"limits"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Production reports whether the server runs in the production environment.
func (s ServerConfig) Production() bool {
	return strings.EqualFold(s.Environment, EnvProduction)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// HTTPConfig contains settings for the outbound HTTP client shared by catalog services.
type HTTPConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the client timeout as a [time.Duration].
func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// FeatureConfig holds feature flags.
type FeatureConfig struct {
	ProxyImages bool `toml:"proxy_images"` // rewrite card images through /api/image
	Bestsellers bool `toml:"bestsellers"`  // expose /api/bestsellers
	Reviews     bool `toml:"reviews"`      // expose /api/reviewed
}

// ProxyConfig contains image proxy settings.
type ProxyConfig struct {
	AllowedHosts []string `toml:"allowed_hosts"`
	UserAgent    string   `toml:"user_agent"`
	MaxAge       int      `toml:"max_age"`
}

// CacheConfig contains Cache-Control TTLs (seconds) for cacheable API responses.
type CacheConfig struct {
	SearchTTL int `toml:"search_ttl"`
	ListTTL   int `toml:"list_ttl"`
}

// LimitsConfig contains the capacity of each saved-items list.
type LimitsConfig struct {
	Movies     int `toml:"movies"`
	VideoGames int `toml:"video_games"`
	BoardGames int `toml:"board_games"`
	Books      int `toml:"books"`
}

// CredentialsConfig contains catalog-specific credentials and endpoints.
type CredentialsConfig struct {
	TMDB        TMDBConfig        `toml:"tmdb"`
	IGDB        IGDBConfig        `toml:"igdb"`
	BGG         BGGConfig         `toml:"bgg"`
	GoogleBooks GoogleBooksConfig `toml:"google_books"`
	OpenCritic  OpenCriticConfig  `toml:"opencritic"`
	NYT         NYTConfig         `toml:"nyt"`
}

// TMDBConfig contains The Movie Database API settings.
type TMDBConfig struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
}

// IGDBConfig contains IGDB API settings. IGDB authenticates with a Twitch app token.
type IGDBConfig struct {
	ClientID          string  `toml:"client_id"`
	ClientSecret      string  `toml:"client_secret"`
	TokenURL          string  `toml:"token_url"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// BGGConfig contains BoardGameGeek XML API settings.
type BGGConfig struct {
	Token             string  `toml:"token"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// GoogleBooksConfig contains Google Books API settings.
type GoogleBooksConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// OpenCriticConfig contains OpenCritic (RapidAPI) settings.
type OpenCriticConfig struct {
	APIKey  string `toml:"api_key"`
	Host    string `toml:"host"`
	BaseURL string `toml:"base_url"`
}

// NYTConfig contains NYT Books API settings.
type NYTConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values of [DefaultConfig]. A missing file is [ErrMissingConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
