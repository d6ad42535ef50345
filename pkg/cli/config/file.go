package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/m-mizutani/relpush/pkg/domain/types"
)

// File is an optional TOML configuration file providing defaults for flags.
// Values given on the command line or via environment variables win.
//
//	[source]
//	repo = "gardener/docforge"
//	repo_dir = "/workspace/docforge"
//	output_dir = "/workspace/out"
//
//	[github]
//	token = "ghp_..."
type File struct {
	Source Source `toml:"source"`
	GitHub GitHub `toml:"github"`
}

// LoadFile reads and parses a TOML configuration file
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.V("path", path),
			goerr.T(types.TagConfig))
	}

	var f File
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.V("path", path),
			goerr.T(types.TagConfig))
	}

	return &f, nil
}

// ApplyTo fills fields that are still unset after flag and environment
// parsing with values from the file
func (f *File) ApplyTo(src *Source, gh *GitHub) {
	if src.Repo == "" {
		src.Repo = f.Source.Repo
	}
	if src.RepoDir == "" || src.RepoDir == "." {
		if f.Source.RepoDir != "" {
			src.RepoDir = f.Source.RepoDir
		}
	}
	if src.OutputDir == "" || src.OutputDir == "." {
		if f.Source.OutputDir != "" {
			src.OutputDir = f.Source.OutputDir
		}
	}

	if gh.Token == "" {
		gh.Token = f.GitHub.Token
	}
	if gh.AppID == 0 {
		gh.AppID = f.GitHub.AppID
	}
	if gh.InstallationID == 0 {
		gh.InstallationID = f.GitHub.InstallationID
	}
	if gh.PrivateKeyPath == "" {
		gh.PrivateKeyPath = f.GitHub.PrivateKeyPath
	}
	if gh.BaseURL == "" {
		gh.BaseURL = f.GitHub.BaseURL
	}
	if gh.UploadURL == "" {
		gh.UploadURL = f.GitHub.UploadURL
	}
}
