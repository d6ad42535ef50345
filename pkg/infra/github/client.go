package github

import (
	"context"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/relpush/pkg/domain/interfaces"
	"github.com/m-mizutani/relpush/pkg/domain/model"
	"github.com/m-mizutani/relpush/pkg/domain/types"
)

// assets are always published as generic binaries, mirroring the CI
// pipeline this tool replaced
const assetContentType = "application/octet-stream"

type config struct {
	token          string
	appID          int64
	installationID int64
	privateKeyPath string
	baseURL        string
	uploadURL      string
}

// Option is a functional option for client configuration
type Option func(*config)

// WithToken authenticates with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithApp authenticates as a GitHub App installation using a private key file
func WithApp(appID, installationID int64, privateKeyPath string) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKeyPath = privateKeyPath
	}
}

// WithEnterpriseURLs points the client at a GitHub Enterprise instance
func WithEnterpriseURLs(baseURL, uploadURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
		c.uploadURL = uploadURL
	}
}

type client struct {
	githubClient *github.Client
}

// New creates a ReleaseClient backed by the GitHub API. Exactly one
// authentication method (token or App installation) must be configured.
func New(opts ...Option) (interfaces.ReleaseClient, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var githubClient *github.Client

	switch {
	case cfg.token != "" && cfg.appID != 0:
		return nil, goerr.New("both token and GitHub App credentials given, choose one",
			goerr.T(types.TagConfig))

	case cfg.token != "":
		githubClient = github.NewClient(nil).WithAuthToken(cfg.token)

	case cfg.appID != 0:
		itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.appID, cfg.installationID, cfg.privateKeyPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("app_id", cfg.appID),
				goerr.V("private_key", cfg.privateKeyPath),
				goerr.T(types.TagConfig))
		}
		githubClient = github.NewClient(&http.Client{Transport: itr})

	default:
		return nil, goerr.New("no GitHub credentials given", goerr.T(types.TagConfig))
	}

	if cfg.baseURL != "" {
		uploadURL := cfg.uploadURL
		if uploadURL == "" {
			uploadURL = cfg.baseURL
		}
		enterprise, err := githubClient.WithEnterpriseURLs(cfg.baseURL, uploadURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub Enterprise URL",
				goerr.V("base_url", cfg.baseURL),
				goerr.T(types.TagConfig))
		}
		githubClient = enterprise
	}

	return &client{githubClient: githubClient}, nil
}

// FindReleaseByTag resolves a release by its tag name
func (c *client) FindReleaseByTag(ctx context.Context, repo model.Repository, tag string) (*model.Release, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, repo.Owner, repo.Name, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, goerr.Wrap(err, "no release found for tag",
				goerr.V("repository", repo.FullName()),
				goerr.V("tag", tag),
				goerr.T(types.TagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to look up release by tag",
			goerr.V("repository", repo.FullName()),
			goerr.V("tag", tag))
	}

	return &model.Release{
		ID:      release.GetID(),
		TagName: release.GetTagName(),
		Name:    release.GetName(),
	}, nil
}

// ListAssets returns all assets attached to the release
func (c *client) ListAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]model.Asset, error) {
	var assets []model.Asset
	opts := &github.ListOptions{PerPage: 100}

	for {
		page, resp, err := c.githubClient.Repositories.ListReleaseAssets(ctx, repo.Owner, repo.Name, releaseID, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list release assets",
				goerr.V("repository", repo.FullName()),
				goerr.V("release_id", releaseID))
		}

		for _, a := range page {
			assets = append(assets, model.Asset{ID: a.GetID(), Name: a.GetName()})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return assets, nil
}

// DeleteAsset removes an asset from the release
func (c *client) DeleteAsset(ctx context.Context, repo model.Repository, assetID int64) error {
	if _, err := c.githubClient.Repositories.DeleteReleaseAsset(ctx, repo.Owner, repo.Name, assetID); err != nil {
		return goerr.Wrap(err, "failed to delete release asset",
			goerr.V("repository", repo.FullName()),
			goerr.V("asset_id", assetID))
	}
	return nil
}

// UploadAsset uploads the file as a new asset on the release
func (c *client) UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.Asset, error) {
	opts := &github.UploadOptions{
		Name:      name,
		MediaType: assetContentType,
	}

	asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, repo.Owner, repo.Name, releaseID, opts, file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("repository", repo.FullName()),
			goerr.V("release_id", releaseID),
			goerr.V("asset_name", name))
	}

	return &model.Asset{ID: asset.GetID(), Name: asset.GetName()}, nil
}
