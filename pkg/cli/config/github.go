package config

import (
	"github.com/urfave/cli/v3"

	githubinfra "github.com/m-mizutani/relpush/pkg/infra/github"
)

// GitHub holds GitHub API authentication configuration
type GitHub struct {
	Token          string `masq:"secret" toml:"token"`
	AppID          int64  `toml:"app_id"`
	InstallationID int64  `toml:"installation_id"`
	PrivateKeyPath string `toml:"private_key"`
	BaseURL        string `toml:"base_url"`
	UploadURL      string `toml:"upload_url"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELPUSH_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID (alternative to token auth)",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELPUSH_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("RELPUSH_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "Path to the GitHub App private key file",
			Destination: &c.PrivateKeyPath,
			Sources:     cli.EnvVars("RELPUSH_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub Enterprise API base URL",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("RELPUSH_GITHUB_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub Enterprise upload URL (defaults to the base URL)",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("RELPUSH_GITHUB_UPLOAD_URL"),
		},
	}
}

// Options builds the infra client options from this configuration
func (c *GitHub) Options() []githubinfra.Option {
	var opts []githubinfra.Option

	if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}
	if c.AppID != 0 {
		opts = append(opts, githubinfra.WithApp(c.AppID, c.InstallationID, c.PrivateKeyPath))
	}
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithEnterpriseURLs(c.BaseURL, c.UploadURL))
	}

	return opts
}
