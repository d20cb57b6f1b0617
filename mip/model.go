package mip

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ObjSense is the optimization direction.
type ObjSense int

const (
	// Minimize the objective.
	Minimize ObjSense = iota
	// Maximize the objective.
	Maximize
)

// String returns the LP section keyword for s.
func (s ObjSense) String() string {
	if s == Maximize {
		return "Maximize"
	}

	return "Minimize"
}

// Model is a mixed-integer linear program under construction.
// A Model is not safe for concurrent mutation.
type Model struct {
	name     string
	vars     []*Var
	varNames map[string]*Var
	cons     []*Constraint
	conNames map[string]struct{}
	autoRow  int
	sense    ObjSense
	obj      *Expr
}

// NewModel returns an empty minimization model.
func NewModel(name string) *Model {
	return &Model{
		name:     name,
		varNames: make(map[string]*Var),
		conNames: make(map[string]struct{}),
		obj:      NewExpr(),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// AddVar declares a variable. Binary variables get bounds [0,1]
// regardless of lb and ub.
func (m *Model) AddVar(name string, lb, ub float64, typ VarType) (*Var, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if _, dup := m.varNames[name]; dup {
		return nil, errors.Wrapf(ErrDuplicateName, "variable %q", name)
	}
	if typ == Binary {
		lb, ub = 0, 1
	}
	if err := checkBounds(lb, ub); err != nil {
		return nil, errors.Wrapf(err, "variable %q [%g, %g]", name, lb, ub)
	}
	v := &Var{model: m, index: len(m.vars), name: name, lb: lb, ub: ub, typ: typ}
	m.vars = append(m.vars, v)
	m.varNames[name] = v

	return v, nil
}

// AddContinuous declares a continuous variable.
func (m *Model) AddContinuous(name string, lb, ub float64) (*Var, error) {
	return m.AddVar(name, lb, ub, Continuous)
}

// AddInteger declares an integer variable.
func (m *Model) AddInteger(name string, lb, ub float64) (*Var, error) {
	return m.AddVar(name, lb, ub, Integer)
}

// AddBinary declares a 0/1 variable.
func (m *Model) AddBinary(name string) (*Var, error) {
	return m.AddVar(name, 0, 1, Binary)
}

// Var looks a variable up by name.
func (m *Model) Var(name string) (*Var, bool) {
	v, ok := m.varNames[name]
	return v, ok
}

// Vars returns the variables in declaration order.
func (m *Model) Vars() []*Var {
	out := make([]*Var, len(m.vars))
	copy(out, m.vars)

	return out
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// IsMIP reports whether any variable is integer or binary.
func (m *Model) IsMIP() bool {
	for _, v := range m.vars {
		if v.typ.IsIntegral() {
			return true
		}
	}

	return false
}

// AddConstraint adds the row lhs (sense) rhs. Both sides may hold
// variables and constants; the stored row keeps variables on the left and
// the constant on the right. An empty name is replaced by "c<k>".
func (m *Model) AddConstraint(name string, lhs *Expr, sense Sense, rhs *Expr) (*Constraint, error) {
	if sense != LE && sense != GE && sense != EQ {
		return nil, errors.Wrapf(ErrInvalidModel, "constraint %q: unknown sense %d", name, sense)
	}
	if name == "" {
		name = m.nextRowName()
	} else if err := checkName(name); err != nil {
		return nil, err
	}
	if _, dup := m.conNames[name]; dup {
		return nil, errors.Wrapf(ErrDuplicateName, "constraint %q", name)
	}

	e := lhs.clone()
	e.AddExpr(-1, rhs)
	e = e.clone()
	if err := m.owns(e); err != nil {
		return nil, errors.Wrapf(err, "constraint %q", name)
	}
	if !e.finite() {
		return nil, errors.Wrapf(ErrInvalidBounds, "constraint %q: non-finite coefficient", name)
	}
	c := &Constraint{name: name, sense: sense, rhs: -e.constant}
	e.constant = 0
	c.expr = e
	m.cons = append(m.cons, c)
	m.conNames[name] = struct{}{}

	return c, nil
}

// AddRow is AddConstraint with a constant right-hand side.
func (m *Model) AddRow(name string, lhs *Expr, sense Sense, rhs float64) (*Constraint, error) {
	return m.AddConstraint(name, lhs, sense, NewExpr().AddConst(rhs))
}

// Constraints returns the rows in insertion order.
func (m *Model) Constraints() []*Constraint {
	out := make([]*Constraint, len(m.cons))
	copy(out, m.cons)

	return out
}

// NumConstraints returns the number of rows.
func (m *Model) NumConstraints() int { return len(m.cons) }

// RemoveConstraints deletes count rows starting at index from.
func (m *Model) RemoveConstraints(from, count int) error {
	if from < 0 || count < 0 || from+count > len(m.cons) {
		return errors.Wrapf(ErrRangeOutOfBounds, "remove [%d, %d) of %d rows", from, from+count, len(m.cons))
	}
	for _, c := range m.cons[from : from+count] {
		delete(m.conNames, c.name)
	}
	m.cons = slices.Delete(m.cons, from, from+count)

	return nil
}

// SetObjective replaces the objective.
func (m *Model) SetObjective(sense ObjSense, e *Expr) error {
	obj := e.clone()
	if err := m.owns(obj); err != nil {
		return errors.Wrap(err, "objective")
	}
	if !obj.finite() {
		return errors.Wrap(ErrInvalidBounds, "objective: non-finite coefficient")
	}
	m.sense = sense
	m.obj = obj

	return nil
}

// ObjectiveSense returns the optimization direction.
func (m *Model) ObjectiveSense() ObjSense { return m.sense }

// Objective returns a copy of the objective expression.
func (m *Model) Objective() *Expr { return m.obj.clone() }

// Validate checks bounds, binary domains and coefficients.
func (m *Model) Validate() error {
	for _, v := range m.vars {
		if err := checkBounds(v.lb, v.ub); err != nil {
			return errors.Wrapf(ErrInvalidModel, "variable %q: bounds [%g, %g]", v.name, v.lb, v.ub)
		}
		if v.typ == Binary && (v.lb < 0 || v.ub > 1) {
			return errors.Wrapf(ErrInvalidModel, "binary %q: bounds [%g, %g]", v.name, v.lb, v.ub)
		}
	}
	for _, c := range m.cons {
		if !c.expr.finite() || math.IsNaN(c.rhs) || math.IsInf(c.rhs, 0) {
			return errors.Wrapf(ErrInvalidModel, "constraint %q: non-finite data", c.name)
		}
	}
	if !m.obj.finite() {
		return errors.Wrap(ErrInvalidModel, "objective: non-finite data")
	}

	return nil
}

func (m *Model) owns(e *Expr) error {
	for _, t := range e.terms {
		if t.Var == nil || t.Var.model != m {
			return ErrForeignVar
		}
	}

	return nil
}

func (m *Model) nextRowName() string {
	for {
		m.autoRow++
		name := fmt.Sprintf("c%d", m.autoRow)
		if _, taken := m.conNames[name]; !taken {
			return name
		}
	}
}

// reservedNames collide with LP keywords in positions the reader cannot
// disambiguate.
var reservedNames = map[string]struct{}{
	"inf": {}, "infinity": {}, "free": {}, "end": {},
	"st": {}, "s.t.": {}, "subject": {}, "such": {},
	"min": {}, "minimize": {}, "minimise": {}, "minimum": {},
	"max": {}, "maximize": {}, "maximise": {}, "maximum": {},
	"bound": {}, "bounds": {}, "gen": {}, "general": {}, "generals": {},
	"bin": {}, "binary": {}, "binaries": {}, "semi": {}, "semis": {}, "sos": {},
}

const nameSymbols = "_!\"#$%&()/,.;?@'{}|~[]"

// checkName enforces CPLEX LP naming: no leading digit or period, only
// letters, digits and a fixed symbol set, at most 255 bytes.
func checkName(name string) error {
	if name == "" || len(name) > 255 {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if _, bad := reservedNames[strings.ToLower(name)]; bad {
		return errors.Wrapf(ErrInvalidName, "%q is reserved", name)
	}
	if name[0] == '.' || (name[0] >= '0' && name[0] <= '9') {
		return errors.Wrapf(ErrInvalidName, "%q starts with a digit or period", name)
	}
	for _, r := range name {
		if r > unicode.MaxASCII {
			return errors.Wrapf(ErrInvalidName, "%q has non-ASCII characters", name)
		}
		if !isNameRune(r) {
			return errors.Wrapf(ErrInvalidName, "%q has character %q", name, r)
		}
	}

	return nil
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(nameSymbols, r)
}
