package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/importer"
	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/SscSPs/ledger_ingest/internal/repositories/memory"
)

func newStageCommand(a *app) *cobra.Command {
	var clear, force, dryRun bool

	cmd := &cobra.Command{
		Use:   "stage <file.csv>",
		Short: "Load a staging CSV into the staging area",
		Long: `Load a staging CSV into the staging area.

The file needs a header with at least date, set_id, subject_code and amount.
entry_id, remarks and kind are optional. Rows are appended as-is; duplicates
against the ledger are resolved at confirm time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStage(cmd, args[0], clear, force, dryRun)
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "empty the staging area first")
	cmd.Flags().BoolVar(&force, "force", false, "replace rows previously staged from the same file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate only, without touching the database")

	return cmd
}

func (a *app) runStage(cmd *cobra.Command, path string, clear, force, dryRun bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ExitError{Code: 2, Err: fmt.Errorf("reading %s: %w", path, err)}
	}
	name := filepath.Base(path)
	entries, err := importer.ParseStagingCSV(bytes.NewReader(data), name)
	if err != nil {
		return err
	}
	req := domain.StageRequest{SourceFile: name, Entries: entries, Clear: clear, Force: force}
	out := cmd.OutOrStdout()

	if dryRun {
		return a.dryRunStage(cmd, req)
	}

	rt, ctx, err := a.open(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.Services.Staging.Stage(ctx, req)
	if err != nil {
		return err
	}
	if result.Cleared > 0 {
		fmt.Fprintf(out, "cleared %d previously staged entries\n", result.Cleared)
	}
	if result.Replaced > 0 {
		fmt.Fprintf(out, "replaced %d entries previously staged from %s\n", result.Replaced, name)
	}
	fmt.Fprintf(out, "staged %d entries from %s (batch %s)\n", result.Staged, name, result.BatchID)

	if rt.Uploads != nil {
		if _, err := rt.Uploads.Save(name, bytes.NewReader(data)); err != nil {
			warnf(cmd, "upload copy of %s not kept: %v", name, err)
		}
	}

	report, err := rt.Services.Validation.ValidateStaging(ctx)
	if err != nil {
		return err
	}
	return renderValidation(out, report)
}

// dryRunStage stages into a throwaway in-memory store and reports the balance check.
func (a *app) dryRunStage(cmd *cobra.Command, req domain.StageRequest) error {
	cfg, logger, err := a.config(cmd)
	if err != nil {
		return err
	}
	rt, err := MemoryBootstrapper(memory.NewStore(), nil)(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	ctx := middleware.WithLogger(cmd.Context(), logger)

	result, err := rt.Services.Staging.Stage(ctx, req)
	if err != nil {
		return err
	}
	report, err := rt.Services.Validation.ValidateStaging(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dry run: %d entries parsed from %s\n", result.Staged, req.SourceFile)
	if err := renderValidation(out, report); err != nil {
		return err
	}
	if !report.Balanced {
		return &ExitError{Code: 1, Err: &domain.UnbalancedSetsError{Report: report}}
	}
	return nil
}
