package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env") into the process environment.
//
// Missing files are ignored. Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values with environment variables read through getenv.
//
// Passing nil uses [os.Getenv].
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, v)
		}
		*dst = b
		return nil
	}

	str("UPNEXT_ENV", &cfg.Server.Environment)
	str("UPNEXT_HOST", &cfg.Server.Host)
	str("UPNEXT_LOG_LEVEL", &cfg.Log.Level)
	if v := strings.TrimSpace(getenv("UPNEXT_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%w: UPNEXT_PORT=%q", ErrInvalidConfig, v)
		}
		cfg.Server.Port = port
	}

	str("TMDB_API_KEY", &cfg.Credentials.TMDB.APIKey)
	str("IGDB_CLIENT_ID", &cfg.Credentials.IGDB.ClientID)
	str("IGDB_CLIENT_SECRET", &cfg.Credentials.IGDB.ClientSecret)
	str("BGG_TOKEN", &cfg.Credentials.BGG.Token)
	str("GOOGLE_BOOKS_API_KEY", &cfg.Credentials.GoogleBooks.APIKey)
	str("OPENCRITIC_API_KEY", &cfg.Credentials.OpenCritic.APIKey)
	str("NYT_API_KEY", &cfg.Credentials.NYT.APIKey)

	for key, dst := range map[string]*bool{
		"UPNEXT_FEATURE_PROXY_IMAGES": &cfg.Features.ProxyImages,
		"UPNEXT_FEATURE_BESTSELLERS":  &cfg.Features.Bestsellers,
		"UPNEXT_FEATURE_REVIEWS":      &cfg.Features.Reviews,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}

	return nil
}
