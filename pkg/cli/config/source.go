package config

import "github.com/urfave/cli/v3"

// Source holds the publish inputs: target repository and local directories.
// The unprefixed env var names match what the CI pipeline already exports.
type Source struct {
	Repo      string `toml:"repo"`
	RepoDir   string `toml:"repo_dir"`
	OutputDir string `toml:"output_dir"`
}

// Flags returns CLI flags for source configuration
func (c *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Target repository as owner/name",
			Destination: &c.Repo,
			Sources:     cli.EnvVars("RELPUSH_REPO", "SOURCE_GITHUB_REPO_OWNER_AND_NAME"),
		},
		&cli.StringFlag{
			Name:        "repo-dir",
			Usage:       "Local checkout directory containing the VERSION file",
			Value:       ".",
			Destination: &c.RepoDir,
			Sources:     cli.EnvVars("RELPUSH_REPO_DIR", "MAIN_REPO_DIR"),
		},
		&cli.StringFlag{
			Name:        "output-dir",
			Usage:       "Build output directory; binaries are read from bin/rel",
			Value:       ".",
			Destination: &c.OutputDir,
			Sources:     cli.EnvVars("RELPUSH_OUTPUT_DIR", "BINARY"),
		},
	}
}
