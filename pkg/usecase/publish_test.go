package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/relpush/pkg/domain/model"
	"github.com/m-mizutani/relpush/pkg/domain/types"
	"github.com/m-mizutani/relpush/pkg/usecase"
)

// MockReleaseClient is a mock implementation of ReleaseClient
type MockReleaseClient struct {
	findReleaseFunc func(ctx context.Context, repo model.Repository, tag string) (*model.Release, error)
	listAssetsFunc  func(ctx context.Context, repo model.Repository, releaseID int64) ([]model.Asset, error)
	deleteAssetFunc func(ctx context.Context, repo model.Repository, assetID int64) error
	uploadAssetFunc func(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.Asset, error)

	findCalls   []string
	deleteCalls []int64
	uploadCalls []string
}

func (m *MockReleaseClient) FindReleaseByTag(ctx context.Context, repo model.Repository, tag string) (*model.Release, error) {
	m.findCalls = append(m.findCalls, tag)
	if m.findReleaseFunc != nil {
		return m.findReleaseFunc(ctx, repo, tag)
	}
	return &model.Release{ID: 42, TagName: tag}, nil
}

func (m *MockReleaseClient) ListAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]model.Asset, error) {
	if m.listAssetsFunc != nil {
		return m.listAssetsFunc(ctx, repo, releaseID)
	}
	return nil, nil
}

func (m *MockReleaseClient) DeleteAsset(ctx context.Context, repo model.Repository, assetID int64) error {
	m.deleteCalls = append(m.deleteCalls, assetID)
	if m.deleteAssetFunc != nil {
		return m.deleteAssetFunc(ctx, repo, assetID)
	}
	return nil
}

func (m *MockReleaseClient) UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.Asset, error) {
	m.uploadCalls = append(m.uploadCalls, name)
	if m.uploadAssetFunc != nil {
		return m.uploadAssetFunc(ctx, repo, releaseID, name, file)
	}
	return &model.Asset{ID: int64(len(m.uploadCalls)), Name: name}, nil
}

// setupDirs creates a repo dir with a VERSION file and an output dir with
// the given artifacts under bin/rel
func setupDirs(t *testing.T, tag string, artifacts map[string]string) (string, string) {
	t.Helper()

	repoDir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(repoDir, "VERSION"), []byte(tag), 0644))

	outputDir := t.TempDir()
	for rel, content := range artifacts {
		path := filepath.Join(outputDir, "bin", "rel", rel)
		gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		gt.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return repoDir, outputDir
}

func TestPublish_UploadsAllArtifacts(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v1.2.3", map[string]string{
		"a.bin":        "aaa",
		"subdir/b.bin": "bbb",
	})

	mock := &MockReleaseClient{}
	uc := usecase.NewPublish(mock)

	result, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.NoError(t, err)
	gt.Value(t, result.Tag).Equal("v1.2.3")
	gt.Value(t, result.Release.ID).Equal(int64(42))

	// Both files upload under their base name, nesting stripped
	gt.Value(t, len(mock.uploadCalls)).Equal(2)
	uploaded := map[string]bool{}
	for _, name := range mock.uploadCalls {
		uploaded[name] = true
	}
	gt.True(t, uploaded["a.bin"])
	gt.True(t, uploaded["b.bin"])
	gt.Value(t, len(result.Uploaded)).Equal(2)
}

func TestPublish_MalformedRepository(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v1.2.3", nil)

	tests := []string{"gardener", "gardener/docforge/extra", "/docforge", "gardener/", ""}
	for _, repo := range tests {
		t.Run("repo="+repo, func(t *testing.T) {
			mock := &MockReleaseClient{}
			uc := usecase.NewPublish(mock)

			_, err := uc.Publish(context.Background(), &usecase.PublishInput{
				Repo:      repo,
				RepoDir:   repoDir,
				OutputDir: outputDir,
			})

			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.TagConfig))

			// Must fail before any client call
			gt.Value(t, len(mock.findCalls)).Equal(0)
			gt.Value(t, len(mock.uploadCalls)).Equal(0)
		})
	}
}

func TestPublish_MissingVersionFile(t *testing.T) {
	repoDir := t.TempDir() // no VERSION file
	_, outputDir := setupDirs(t, "unused", nil)

	mock := &MockReleaseClient{}
	uc := usecase.NewPublish(mock)

	_, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagConfig))
	gt.Value(t, len(mock.findCalls)).Equal(0)
}

func TestPublish_TagUsedVerbatim(t *testing.T) {
	// Trailing newline must reach the release lookup unmodified
	repoDir, outputDir := setupDirs(t, "v1.2.3\n", nil)

	mock := &MockReleaseClient{}
	uc := usecase.NewPublish(mock)

	result, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.NoError(t, err)
	gt.Value(t, len(mock.findCalls)).Equal(1)
	gt.Value(t, mock.findCalls[0]).Equal("v1.2.3\n")
	gt.Value(t, result.Tag).Equal("v1.2.3\n")
}

func TestPublish_EmptyArtifactDir(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v1.2.3", nil)
	gt.NoError(t, os.MkdirAll(filepath.Join(outputDir, "bin", "rel"), 0755))

	mock := &MockReleaseClient{}
	uc := usecase.NewPublish(mock)

	result, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.NoError(t, err)
	gt.Value(t, len(mock.uploadCalls)).Equal(0)
	gt.Value(t, len(result.Uploaded)).Equal(0)
}

func TestPublish_MissingArtifactDir(t *testing.T) {
	// No bin/rel at all: treated as zero artifacts, not an error
	repoDir, outputDir := setupDirs(t, "v1.2.3", nil)

	mock := &MockReleaseClient{}
	uc := usecase.NewPublish(mock)

	result, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.NoError(t, err)
	gt.Value(t, len(mock.uploadCalls)).Equal(0)
	gt.Value(t, len(result.Artifacts)).Equal(0)
}

func TestPublish_ReleaseNotFound(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v0.0.9", map[string]string{
		"a.bin": "aaa",
	})

	mock := &MockReleaseClient{
		findReleaseFunc: func(ctx context.Context, repo model.Repository, tag string) (*model.Release, error) {
			return nil, goerr.New("no release found for tag", goerr.T(types.TagNotFound))
		},
	}
	uc := usecase.NewPublish(mock)

	_, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagNotFound))

	// No upload may be attempted when the lookup fails
	gt.Value(t, len(mock.uploadCalls)).Equal(0)
}

func TestPublish_FailFastOnUploadError(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v1.2.3", map[string]string{
		"a.bin": "a",
		"b.bin": "b",
		"c.bin": "c",
		"d.bin": "d",
	})

	mock := &MockReleaseClient{}
	mock.uploadAssetFunc = func(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.Asset, error) {
		// Third upload fails
		if len(mock.uploadCalls) == 3 {
			return nil, errors.New("upload rejected")
		}
		return &model.Asset{Name: name}, nil
	}

	uc := usecase.NewPublish(mock)

	_, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
	})

	gt.Error(t, err)

	// First two sent and not rolled back, fourth never attempted
	gt.Value(t, len(mock.uploadCalls)).Equal(3)
	gt.Value(t, len(mock.deleteCalls)).Equal(0)
}

func TestPublish_DryRun(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v1.2.3", map[string]string{
		"a.bin": "aaa",
		"b.bin": "bbb",
	})

	mock := &MockReleaseClient{}
	uc := usecase.NewPublish(mock)

	result, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
		DryRun:    true,
	})

	gt.NoError(t, err)
	gt.True(t, result.DryRun)
	gt.Value(t, len(result.Artifacts)).Equal(2)
	gt.Value(t, len(mock.uploadCalls)).Equal(0)
}

func TestPublish_OverwriteDeletesCollidingAsset(t *testing.T) {
	repoDir, outputDir := setupDirs(t, "v1.2.3", map[string]string{
		"a.bin": "aaa",
		"b.bin": "bbb",
	})

	mock := &MockReleaseClient{
		listAssetsFunc: func(ctx context.Context, repo model.Repository, releaseID int64) ([]model.Asset, error) {
			return []model.Asset{{ID: 7, Name: "a.bin"}}, nil
		},
	}
	uc := usecase.NewPublish(mock)

	result, err := uc.Publish(context.Background(), &usecase.PublishInput{
		Repo:      "gardener/docforge",
		RepoDir:   repoDir,
		OutputDir: outputDir,
		Overwrite: true,
	})

	gt.NoError(t, err)

	// Only the colliding asset is deleted; both artifacts upload
	gt.Value(t, len(mock.deleteCalls)).Equal(1)
	gt.Value(t, mock.deleteCalls[0]).Equal(int64(7))
	gt.Value(t, len(result.Uploaded)).Equal(2)
}
