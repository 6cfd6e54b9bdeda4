package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/easybake"
	"github.com/aretw0/easybake/internal/presentation/tui"
	"github.com/aretw0/easybake/pkg/runner"
)

// RunOptions controls a single CLI run.
type RunOptions struct {
	JSON  bool
	Seed  int
	Quiet bool
}

// Execute seeds the kitchen if asked, performs one run and writes the report to w.
// The run error is returned after the report has been written.
func Execute(ctx context.Context, k *easybake.Kitchen, w io.Writer, opts RunOptions) (*runner.Report, error) {
	if opts.Seed > 0 {
		if err := k.Seed(ctx, opts.Seed); err != nil {
			return nil, err
		}
	}

	rep, runErr := k.Bake(ctx)
	if rep == nil {
		return nil, runErr
	}

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return rep, err
		}
		return rep, runErr
	}

	if opts.Quiet {
		fmt.Fprintf(w, "%s %s %s\n", rep.RunID, rep.Status, rep.Decision)
		return rep, runErr
	}

	stock, err := k.Stock(ctx)
	if err != nil {
		stock = nil
	}
	if err := tui.Write(w, tui.ReportMarkdown(rep, stock)); err != nil {
		return rep, err
	}
	return rep, runErr
}
