package mip

// Sense is the relation of a constraint row.
type Sense int

const (
	// LE is Σ a·x <= rhs.
	LE Sense = iota
	// GE is Σ a·x >= rhs.
	GE
	// EQ is Σ a·x = rhs.
	EQ
)

// String returns the LP operator for s.
func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	default:
		return "?"
	}
}

// Constraint is a normalized linear row: Σ Terms (Sense) RHS.
type Constraint struct {
	name  string
	expr  *Expr
	sense Sense
	rhs   float64
}

// Name returns the row name.
func (c *Constraint) Name() string { return c.name }

// Sense returns the row relation.
func (c *Constraint) Sense() Sense { return c.sense }

// RHS returns the right-hand side constant.
func (c *Constraint) RHS() float64 { return c.rhs }

// Terms returns a copy of the left-hand side terms.
func (c *Constraint) Terms() []Term { return c.expr.Terms() }

// Activity evaluates the left-hand side at x.
func (c *Constraint) Activity(x []float64) float64 { return c.expr.Eval(x) }

// Satisfied reports whether x satisfies the row within tol.
func (c *Constraint) Satisfied(x []float64, tol float64) bool {
	a := c.Activity(x)
	switch c.sense {
	case LE:
		return a <= c.rhs+tol
	case GE:
		return a >= c.rhs-tol
	default:
		return a >= c.rhs-tol && a <= c.rhs+tol
	}
}
