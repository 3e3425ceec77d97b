package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/upnext/internal/shared"
	"github.com/urfave/cli/v3"
)

const secretMask = "********"

// ConfigInit writes the default configuration to the given path. Existing files are left alone.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		path = r.configPath
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("Created %s\n", path)
}

// ConfigShow prints the effective configuration (file, then environment) as TOML with credentials masked.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	cfg := maskSecrets(*r.config)
	if err := toml.NewEncoder(r.output).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func maskSecrets(cfg shared.Config) shared.Config {
	creds := &cfg.Credentials
	for _, s := range []*string{
		&creds.TMDB.APIKey,
		&creds.IGDB.ClientSecret,
		&creds.BGG.Token,
		&creds.GoogleBooks.APIKey,
		&creds.OpenCritic.APIKey,
		&creds.NYT.APIKey,
	} {
		if *s != "" {
			*s = secretMask
		}
	}
	return cfg
}
