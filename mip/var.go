package mip

import "math"

// VarType is the domain of a variable.
type VarType int

const (
	// Continuous variables take any real value within their bounds.
	Continuous VarType = iota
	// Integer variables take integral values within their bounds.
	Integer
	// Binary variables take 0 or 1; their bounds are pinned to [0,1].
	Binary
)

// String returns a short, stable label for logs.
func (t VarType) String() string {
	switch t {
	case Continuous:
		return "continuous"
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// IsIntegral reports whether values of this type must be integers.
func (t VarType) IsIntegral() bool { return t == Integer || t == Binary }

// Inf is +∞, the "no upper bound" marker.
var Inf = math.Inf(1)

// Var is a decision variable owned by exactly one Model.
type Var struct {
	model *Model
	index int
	name  string
	lb    float64
	ub    float64
	typ   VarType
}

// Name returns the variable name as written to LP files.
func (v *Var) Name() string { return v.name }

// Index returns the position of v in its model; Solution.X is indexed by it.
func (v *Var) Index() int { return v.index }

// Lower returns the lower bound (may be -Inf).
func (v *Var) Lower() float64 { return v.lb }

// Upper returns the upper bound (may be +Inf).
func (v *Var) Upper() float64 { return v.ub }

// Type returns the variable domain.
func (v *Var) Type() VarType { return v.typ }

// SetBounds replaces the bounds of v. Binary variables only accept
// sub-ranges of [0,1].
func (v *Var) SetBounds(lb, ub float64) error {
	if err := checkBounds(lb, ub); err != nil {
		return err
	}
	if v.typ == Binary && (lb < 0 || ub > 1) {
		return ErrInvalidBounds
	}
	v.lb, v.ub = lb, ub

	return nil
}

// String returns the variable name.
func (v *Var) String() string { return v.name }

func checkBounds(lb, ub float64) error {
	if math.IsNaN(lb) || math.IsNaN(ub) || lb > ub || math.IsInf(lb, 1) || math.IsInf(ub, -1) {
		return ErrInvalidBounds
	}

	return nil
}
