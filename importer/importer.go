// Package importer loads a model from an LP file, removes a contiguous
// range of constraints and solves what is left.
//
// Typical use mirrors cmd/lpresolve:
//
//	cfg := importer.DefaultConfig()
//	cfg.ModelPath = "model.lp"
//	rep, err := importer.Run(ctx, simplex.New(), cfg)
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tspmip/mip"
)

const (
	// DefaultModelPath is the LP file read when none is configured.
	DefaultModelPath = "model_1809.lp"

	// DefaultRemoveFrom is the 0-based index of the first removed constraint.
	DefaultRemoveFrom = 80

	// DefaultRemoveCount is the number of removed constraints.
	DefaultRemoveCount = 20
)

// ErrNoModelPath is returned when Config.ModelPath is empty.
var ErrNoModelPath = errors.New("importer: no model path")

// Config drives one Run.
type Config struct {
	ModelPath string

	// RemoveFrom and RemoveCount select constraints [RemoveFrom,
	// RemoveFrom+RemoveCount) in file order. A zero count keeps every row.
	RemoveFrom  int
	RemoveCount int

	// ExportPath, when non-empty, receives the reduced model before solving.
	ExportPath string

	Params mip.Params
	Logger logrus.FieldLogger
}

// DefaultConfig returns the configuration used by cmd/lpresolve.
func DefaultConfig() Config {
	return Config{
		ModelPath:   DefaultModelPath,
		RemoveFrom:  DefaultRemoveFrom,
		RemoveCount: DefaultRemoveCount,
		Params:      mip.DefaultParams(),
	}
}

// VarValue is one entry of the solution vector.
type VarValue struct {
	Name  string
	Value float64
}

// Report is the outcome of Run.
type Report struct {
	Model             string
	Status            mip.Status
	Objective         float64
	Values            []VarValue
	ConstraintsBefore int
	ConstraintsAfter  int
}

// String renders the status line, the objective and the solution vector.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", r.Status)
	if !r.Status.HasSolution() {
		return b.String()
	}
	fmt.Fprintf(&b, "objective: %g\n", r.Objective)
	for _, v := range r.Values {
		fmt.Fprintf(&b, "%s = %g\n", v.Name, v.Value)
	}

	return b.String()
}

// Run imports cfg.ModelPath, drops the configured constraint range,
// optionally exports the reduced model, and solves it in a scoped Env.
//
// Errors: ErrNoModelPath, the ImportLP error (os.ErrNotExist, mip.ErrLPSyntax,
// mip.ErrLPUnsupported), mip.ErrRangeOutOfBounds, export and solve errors.
// An infeasible or unsolved model is reported through Report.Status.
func Run(ctx context.Context, backend mip.Backend, cfg Config) (Report, error) {
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	if cfg.ModelPath == "" {
		return Report{}, ErrNoModelPath
	}

	m, err := mip.ImportLP(cfg.ModelPath)
	if err != nil {
		return Report{}, errors.Wrap(err, "importer: import")
	}
	rep := Report{Model: m.Name(), ConstraintsBefore: m.NumConstraints()}
	log = log.WithFields(logrus.Fields{"model": m.Name(), "path": cfg.ModelPath})
	log.WithFields(logrus.Fields{
		"vars":        m.NumVars(),
		"constraints": rep.ConstraintsBefore,
	}).Info("model imported")

	if cfg.RemoveCount != 0 {
		if err = m.RemoveConstraints(cfg.RemoveFrom, cfg.RemoveCount); err != nil {
			return rep, errors.Wrap(err, "importer: remove constraints")
		}
	}
	rep.ConstraintsAfter = m.NumConstraints()
	log.WithFields(logrus.Fields{
		"from":        cfg.RemoveFrom,
		"count":       cfg.RemoveCount,
		"constraints": rep.ConstraintsAfter,
	}).Info("constraints removed")

	if cfg.ExportPath != "" {
		if err = m.ExportLP(cfg.ExportPath); err != nil {
			return rep, errors.Wrap(err, "importer: export")
		}
		log.WithField("export", cfg.ExportPath).Info("model exported")
	}

	env, err := mip.NewEnv(backend, mip.WithLogger(log), mip.WithParams(cfg.Params))
	if err != nil {
		return rep, err
	}
	defer env.Close()

	sol, err := env.Solve(ctx, m)
	if err != nil {
		return rep, errors.Wrap(err, "importer: solve")
	}
	rep.Status = sol.Status
	if !sol.Status.HasSolution() {
		return rep, nil
	}
	rep.Objective = sol.ObjValue()
	vars := m.Vars()
	rep.Values = make([]VarValue, len(vars))
	for i, v := range vars {
		rep.Values[i] = VarValue{Name: v.Name(), Value: sol.Value(v)}
	}

	return rep, nil
}
