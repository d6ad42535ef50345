package usecase

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/relpush/pkg/domain/interfaces"
	"github.com/m-mizutani/relpush/pkg/domain/model"
	"github.com/m-mizutani/relpush/pkg/domain/types"
)

// versionFileName is the file at the repository root holding the release tag
const versionFileName = "VERSION"

// artifactSubDir is the subtree of the output directory that holds
// publishable binaries
var artifactSubDir = filepath.Join("bin", "rel")

// PublishInput holds the inputs of one publish run
type PublishInput struct {
	Repo      string // Repository as "owner/name"
	RepoDir   string // Local checkout containing the VERSION file
	OutputDir string // Build output directory; binaries live under bin/rel
	Overwrite bool   // Delete a colliding asset before uploading
	DryRun    bool   // Resolve and enumerate, but upload nothing
}

type publishUseCase struct {
	client interfaces.ReleaseClient
}

// NewPublish creates the publish use case
func NewPublish(client interfaces.ReleaseClient) *publishUseCase {
	return &publishUseCase{client: client}
}

// Publish uploads every binary under <OutputDir>/bin/rel as an asset of the
// release tagged with the contents of <RepoDir>/VERSION. Execution is
// strictly sequential and fail-fast: the first error aborts the run, already
// uploaded assets stay, and remaining files are not attempted.
func (uc *publishUseCase) Publish(ctx context.Context, input *PublishInput) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx)

	repo, err := model.ParseRepository(input.Repo)
	if err != nil {
		return nil, err
	}

	tag, err := uc.readVersionFile(ctx, input.RepoDir)
	if err != nil {
		return nil, err
	}

	logger.Info("Resolving release",
		"repository", repo.FullName(),
		"tag", tag,
	)

	release, err := uc.client.FindReleaseByTag(ctx, repo, tag)
	if err != nil {
		return nil, err
	}

	artifacts, err := uc.collectArtifacts(ctx, input.OutputDir)
	if err != nil {
		return nil, err
	}

	result := &model.PublishResult{
		Repository: repo,
		Tag:        tag,
		Release:    release,
		Artifacts:  artifacts,
		DryRun:     input.DryRun,
	}

	if input.DryRun {
		logger.Info("Dry run, skipping uploads",
			"release_id", release.ID,
			"artifact_count", len(artifacts),
		)
		return result, nil
	}

	var existing []model.Asset
	if input.Overwrite {
		existing, err = uc.client.ListAssets(ctx, repo, release.ID)
		if err != nil {
			return nil, err
		}
	}

	for _, artifact := range artifacts {
		if input.Overwrite {
			if err := uc.deleteColliding(ctx, repo, existing, artifact.Name); err != nil {
				return nil, err
			}
		}

		if err := uc.uploadArtifact(ctx, repo, release, artifact); err != nil {
			return nil, err
		}
		result.Uploaded = append(result.Uploaded, artifact.Name)
	}

	logger.Info("Publish completed",
		"repository", repo.FullName(),
		"tag", tag,
		"uploaded", len(result.Uploaded),
	)

	return result, nil
}

// readVersionFile reads the release tag from the version file. The contents
// are used verbatim as the lookup key; the surrounding build process is
// responsible for the file holding exactly the tag text.
func (uc *publishUseCase) readVersionFile(ctx context.Context, repoDir string) (string, error) {
	path := filepath.Join(repoDir, versionFileName)

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read version file",
			goerr.V("path", path),
			goerr.T(types.TagConfig))
	}

	tag := string(raw)
	if trimmed := strings.TrimSpace(tag); trimmed != tag {
		ctxlog.From(ctx).Warn("Version file contains surrounding whitespace, using it verbatim",
			"path", path,
			"tag", tag,
		)
	} else if _, err := version.NewVersion(tag); err != nil {
		ctxlog.From(ctx).Warn("Version file contents do not parse as a semantic version",
			"path", path,
			"tag", tag,
		)
	}

	return tag, nil
}

// collectArtifacts recursively gathers regular files under bin/rel of the
// output directory, in traversal order. A missing bin/rel directory yields
// zero artifacts rather than an error, so a build that produced no binaries
// still publishes cleanly.
func (uc *publishUseCase) collectArtifacts(ctx context.Context, outputDir string) ([]model.Artifact, error) {
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve output directory",
			goerr.V("output_dir", outputDir),
			goerr.T(types.TagConfig))
	}

	root := filepath.Join(absDir, artifactSubDir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		ctxlog.From(ctx).Warn("Artifact directory does not exist, nothing to publish",
			"path", root,
		)
		return nil, nil
	}

	var artifacts []model.Artifact
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		artifacts = append(artifacts, model.Artifact{
			Path: path,
			Name: filepath.Base(path),
		})
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to walk artifact directory",
			goerr.V("path", root),
			goerr.T(types.TagConfig))
	}

	return artifacts, nil
}

// deleteColliding removes an already uploaded asset with the same name
func (uc *publishUseCase) deleteColliding(ctx context.Context, repo model.Repository, existing []model.Asset, name string) error {
	for _, asset := range existing {
		if asset.Name != name {
			continue
		}

		ctxlog.From(ctx).Info("Deleting existing asset before upload",
			"asset_name", asset.Name,
			"asset_id", asset.ID,
		)
		return uc.client.DeleteAsset(ctx, repo, asset.ID)
	}
	return nil
}

// uploadArtifact opens one binary and attaches it to the release
func (uc *publishUseCase) uploadArtifact(ctx context.Context, repo model.Repository, release *model.Release, artifact model.Artifact) error {
	logger := ctxlog.From(ctx)

	file, err := os.Open(artifact.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open artifact",
			goerr.V("path", artifact.Path),
			goerr.T(types.TagConfig))
	}
	defer file.Close()

	asset, err := uc.client.UploadAsset(ctx, repo, release.ID, artifact.Name, file)
	if err != nil {
		return err
	}

	logger.Info("Uploaded asset",
		"asset_name", asset.Name,
		"asset_id", asset.ID,
		"path", artifact.Path,
	)

	return nil
}
