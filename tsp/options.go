// Package tsp - functional options for Formulate and Solve.
package tsp

import (
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tspmip/mip"
)

// DefaultModelName names the model in logs and LP exports.
const DefaultModelName = "tsp"

// DefaultExportFile is the LP file the command line tool writes.
const DefaultExportFile = "tsp_model.lp"

// Options controls formulation and solving.
type Options struct {
	// ModelName is written to the LP header and log fields.
	ModelName string

	// ReturnArcLinking also links arcs i→0 that close the tour. Position 0
	// is pinned, so every such row forces x_i <= -1 when the arc is used and
	// the model becomes infeasible for n >= 2. Off by default.
	ReturnArcLinking bool

	// MetricClosure replaces every distance by the shortest path length
	// through other locations before formulating (Floyd–Warshall). Absent
	// arcs (+Inf) become usable when some detour exists.
	MetricClosure bool

	// WarmStart seeds the backend with a Heuristic tour as MIP start so
	// branch-and-bound prunes against it from the first node. On by default.
	WarmStart bool

	// ExportPath, when non-empty, receives the model in LP format before
	// solving.
	ExportPath string

	// Params bounds the backend effort.
	Params mip.Params

	// Logger receives Env and pipeline logging. Nil discards.
	Logger logrus.FieldLogger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		ModelName: DefaultModelName,
		WarmStart: true,
		Params:    mip.DefaultParams(),
	}
}

// WithModelName overrides DefaultModelName.
func WithModelName(name string) Option {
	return func(o *Options) { o.ModelName = name }
}

// WithReturnArcLinking toggles linking rows for arcs into location 0.
func WithReturnArcLinking(on bool) Option {
	return func(o *Options) { o.ReturnArcLinking = on }
}

// WithMetricClosure toggles the shortest-path closure of the distances.
func WithMetricClosure(on bool) Option {
	return func(o *Options) { o.MetricClosure = on }
}

// WithWarmStart toggles the Heuristic MIP start.
func WithWarmStart(on bool) Option {
	return func(o *Options) { o.WarmStart = on }
}

// WithExportPath writes the model to path before solving.
func WithExportPath(path string) Option {
	return func(o *Options) { o.ExportPath = path }
}

// WithParams overrides the backend parameters.
func WithParams(p mip.Params) Option {
	return func(o *Options) { o.Params = p }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = l }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.ModelName == "" {
		o.ModelName = DefaultModelName
	}

	return o
}
