// Command lpresolve imports a model from an LP file, removes a contiguous
// range of constraints and solves the reduced model.
//
// Usage:
//
//	lpresolve [-model model_1809.lp] [-remove-from 80] [-remove-count 20]
//	          [-export reduced.lp] [-log-level info] [-node-limit N] [-time-limit D]
//
// Failures are logged; the command still exits 0.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/katalvlaran/tspmip/importer"
	"github.com/katalvlaran/tspmip/internal/applog"
	"github.com/katalvlaran/tspmip/mip/simplex"
)

func main() {
	cfg := importer.DefaultConfig()

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "LP file to import")
	fs.IntVar(&cfg.RemoveFrom, "remove-from", cfg.RemoveFrom, "0-based index of the first constraint to remove")
	fs.IntVar(&cfg.RemoveCount, "remove-count", cfg.RemoveCount, "number of constraints to remove (0 keeps all)")
	fs.StringVar(&cfg.ExportPath, "export", "", "write the reduced model to this LP file")
	fs.IntVar(&cfg.Params.NodeLimit, "node-limit", cfg.Params.NodeLimit, "branch-and-bound node limit")
	fs.DurationVar(&cfg.Params.TimeLimit, "time-limit", 0, "wall-clock limit, 0 for none")
	level := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	_ = fs.Parse(os.Args[1:])

	logger := applog.New(*level)
	cfg.Logger = logger

	rep, err := importer.Run(context.Background(), simplex.New(simplex.WithLogger(logger)), cfg)
	if err != nil {
		logger.WithError(err).Error("resolve failed")
		return
	}
	fmt.Print(rep.String())
}
