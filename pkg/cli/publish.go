package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/relpush/pkg/cli/config"
	"github.com/m-mizutani/relpush/pkg/domain/model"
	githubinfra "github.com/m-mizutani/relpush/pkg/infra/github"
	"github.com/m-mizutani/relpush/pkg/usecase"
)

func cmdPublish() *cli.Command {
	var (
		sourceCfg config.Source
		githubCfg config.GitHub

		configPath string
		dryRun     bool
		overwrite  bool
	)

	flags := append(sourceCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML config file providing flag defaults",
			Destination: &configPath,
			Sources:     cli.EnvVars("RELPUSH_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Resolve the release and list artifacts without uploading",
			Destination: &dryRun,
		},
		&cli.BoolFlag{
			Name:        "overwrite",
			Usage:       "Delete an existing asset with the same name before uploading",
			Destination: &overwrite,
		},
	)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Upload binaries under <output-dir>/bin/rel to the release tagged by the VERSION file",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if configPath != "" {
				file, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				file.ApplyTo(&sourceCfg, &githubCfg)
			}

			runID := uuid.NewString()
			logger := ctxlog.From(ctx).With(slog.String("run_id", runID))
			ctx = ctxlog.With(ctx, logger)

			logger.Info("Starting publish",
				slog.String("repo", sourceCfg.Repo),
				slog.String("repo_dir", sourceCfg.RepoDir),
				slog.String("output_dir", sourceCfg.OutputDir),
				slog.Bool("dry_run", dryRun),
				slog.Bool("overwrite", overwrite),
				slog.Any("github", githubCfg),
			)

			client, err := githubinfra.New(githubCfg.Options()...)
			if err != nil {
				return err
			}

			uc := usecase.NewPublish(client)
			result, err := uc.Publish(ctx, &usecase.PublishInput{
				Repo:      sourceCfg.Repo,
				RepoDir:   sourceCfg.RepoDir,
				OutputDir: sourceCfg.OutputDir,
				Overwrite: overwrite,
				DryRun:    dryRun,
			})
			if err != nil {
				return goerr.Wrap(err, "publish failed")
			}

			if result.DryRun {
				printDryRunReport(result)
			}

			return nil
		},
	}
}

// printDryRunReport writes a human-readable plan of the uploads that a real
// run would perform
func printDryRunReport(result *model.PublishResult) {
	title := color.New(color.FgCyan, color.Bold)
	item := color.New(color.FgGreen)

	title.Printf("Would upload %d asset(s) to %s (tag %q, release ID %d):\n",
		len(result.Artifacts), result.Repository.FullName(), result.Tag, result.Release.ID)

	for _, artifact := range result.Artifacts {
		item.Printf("  %s", artifact.Name)
		fmt.Printf("  <- %s\n", artifact.Path)
	}

	if len(result.Artifacts) == 0 {
		fmt.Println("  (no artifacts found)")
	}
}
