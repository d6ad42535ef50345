package interfaces

import (
	"context"
	"os"

	"github.com/m-mizutani/relpush/pkg/domain/model"
)

// ReleaseClient defines the GitHub operations required to publish release
// assets. It is intentionally narrow so that tests can swap in a fake
// without touching the network.
type ReleaseClient interface {
	// FindReleaseByTag resolves the release whose tag matches exactly.
	// Returns an error tagged types.TagNotFound if no release exists.
	FindReleaseByTag(ctx context.Context, repo model.Repository, tag string) (*model.Release, error)

	// ListAssets returns the assets currently attached to a release
	ListAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]model.Asset, error)

	// DeleteAsset removes an existing asset from a release
	DeleteAsset(ctx context.Context, repo model.Repository, assetID int64) error

	// UploadAsset attaches the file to the release as a new binary asset
	// under the given name
	UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.Asset, error)
}
