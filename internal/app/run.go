package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/medallion/internal/ctxlog"
	"github.com/vk/medallion/internal/engine"
	"github.com/vk/medallion/internal/extract"
)

// Run optionally extracts raw files, then materializes the configured
// selection and reports the outcome. The report is printed and written
// even when the run fails.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	sel, err := engine.ParseSelection(a.cfg.Selection)
	if err != nil {
		return err
	}
	// Validate the selection before any extraction side effect.
	if _, err := a.engine.Plan(sel); err != nil {
		return err
	}

	if a.cfg.Extract {
		if err := a.extract(ctx); err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
	}

	report, runErr := a.engine.Materialize(ctx, sel)
	if report != nil {
		fmt.Fprintln(a.outW, report.Summary())
		if a.cfg.ReportPath != "" {
			if err := writeReport(a.cfg.ReportPath, report); err != nil {
				a.logger.Error("❌ Failed to write report", "path", a.cfg.ReportPath, "error", err)
				if runErr == nil {
					runErr = err
				}
			}
		}
	}

	a.logger.Debug("App.Run method finished.")
	return runErr
}

func (a *App) extract(ctx context.Context) error {
	if len(a.model.Extracts) == 0 {
		a.logger.Warn("No extract blocks declared, extraction not required.")
		return nil
	}
	ex, err := extract.New(a.cfg.ExtractTimeout)
	if err != nil {
		return err
	}
	defer ex.Close()

	for _, src := range a.model.Extracts {
		if _, err := ex.Run(ctx, src); err != nil {
			return fmt.Errorf("extract %q: %w", src.Name, err)
		}
	}
	return nil
}

func writeReport(path string, report *engine.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
