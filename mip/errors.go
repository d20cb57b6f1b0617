package mip

import "github.com/pkg/errors"

var (
	// ErrNilModel is returned when a nil *Model is handed to an Env or writer.
	ErrNilModel = errors.New("mip: nil model")

	// ErrNoBackend is returned by NewEnv when no backend is supplied.
	ErrNoBackend = errors.New("mip: no backend")

	// ErrEnvClosed is returned by Env.Solve after Env.Close.
	ErrEnvClosed = errors.New("mip: environment closed")

	// ErrInvalidName flags an empty or LP-incompatible variable/constraint name.
	ErrInvalidName = errors.New("mip: invalid name")

	// ErrDuplicateName flags a second variable or constraint with the same name.
	ErrDuplicateName = errors.New("mip: duplicate name")

	// ErrInvalidBounds flags lb > ub, NaN bounds or non-finite coefficients.
	ErrInvalidBounds = errors.New("mip: invalid bounds")

	// ErrForeignVar flags a variable that belongs to another model.
	ErrForeignVar = errors.New("mip: variable does not belong to this model")

	// ErrInvalidModel wraps structural problems found by Model.Validate.
	ErrInvalidModel = errors.New("mip: invalid model")

	// ErrRangeOutOfBounds flags a constraint range outside [0, NumConstraints()).
	ErrRangeOutOfBounds = errors.New("mip: constraint range out of bounds")

	// ErrLPSyntax wraps every parse failure of the LP reader.
	ErrLPSyntax = errors.New("mip: LP syntax error")

	// ErrLPUnsupported flags LP sections this package does not implement.
	ErrLPUnsupported = errors.New("mip: unsupported LP section")

	// ErrBackendPanic is returned when a backend panics during Solve.
	ErrBackendPanic = errors.New("mip: backend panicked")
)
