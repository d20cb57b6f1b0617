// Command tspmip reads a location file, prints its distance matrix and
// solves the TSP over it with the pure-Go MILP backend.
//
// Usage:
//
//	tspmip <locations-file>
//
// The file holds whitespace-separated numeric rows; the first row is a
// header and is ignored. The model is written to tsp_model.lp in the
// working directory. The command exits 0 after every normal run, including
// a missing argument or an unreadable file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tspmip/distance"
	"github.com/katalvlaran/tspmip/internal/applog"
	"github.com/katalvlaran/tspmip/locations"
	"github.com/katalvlaran/tspmip/mip/simplex"
	"github.com/katalvlaran/tspmip/tsp"
)

// logLevelEnv overrides the log level, e.g. TSPMIP_LOG_LEVEL=warn hides
// the echo of input lines.
const logLevelEnv = "TSPMIP_LOG_LEVEL"

func main() {
	level := os.Getenv(logLevelEnv)
	if level == "" {
		level = "info"
	}
	logger := applog.New(level)

	if len(os.Args) < 2 {
		logger.Errorf("usage: %s <locations-file>", os.Args[0])
		return
	}
	run(context.Background(), logger, os.Args[1])
}

func run(ctx context.Context, logger *logrus.Logger, path string) {
	log := logger.WithField("input", path)

	tbl, err := locations.ReadFile(path, locations.WithEcho(func(line string) {
		log.WithField("line", line).Info("input")
	}))
	if err != nil {
		log.WithError(err).Warn("could not read locations, continuing with an empty table")
	}
	log.WithField("locations", tbl.Len()).Info("locations loaded")

	var res tsp.Result
	dist, err := distance.Euclidean(tbl)
	if err != nil {
		res = tsp.Result{Status: tsp.InvalidInput, Err: err}
	} else {
		fmt.Println("distance matrix:")
		fmt.Print(dist.String())
		res = tsp.Solve(ctx, simplex.New(simplex.WithLogger(logger)), dist,
			tsp.WithExportPath(tsp.DefaultExportFile),
			tsp.WithLogger(logger),
		)
	}
	if res.Status != tsp.Success {
		log.WithField("status", res.Status.String()).Warn("no tour")
	}
	fmt.Println(res.String())
}
