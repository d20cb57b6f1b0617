package mip

import "math"

// Term is one coefficient·variable product of a linear expression.
type Term struct {
	Coef float64
	Var  *Var
}

// Expr is a linear expression Σ coef·var + constant. Repeated variables are
// merged into one term, keeping first-occurrence order.
//
// The zero value is an empty expression ready for use.
type Expr struct {
	terms    []Term
	pos      map[*Var]int
	constant float64
}

// NewExpr returns an empty expression.
func NewExpr() *Expr { return &Expr{} }

// Sum returns Σ vars with unit coefficients.
func Sum(vars ...*Var) *Expr {
	e := NewExpr()
	for _, v := range vars {
		e.Add(1, v)
	}

	return e
}

// Add adds coef·v and returns e for chaining.
func (e *Expr) Add(coef float64, v *Var) *Expr {
	if e.pos == nil {
		e.pos = make(map[*Var]int)
	}
	if i, ok := e.pos[v]; ok {
		e.terms[i].Coef += coef
		return e
	}
	e.pos[v] = len(e.terms)
	e.terms = append(e.terms, Term{Coef: coef, Var: v})

	return e
}

// AddConst adds a constant and returns e for chaining.
func (e *Expr) AddConst(c float64) *Expr {
	e.constant += c
	return e
}

// AddExpr adds coef·other to e and returns e.
func (e *Expr) AddExpr(coef float64, other *Expr) *Expr {
	if other == nil {
		return e
	}
	for _, t := range other.terms {
		e.Add(coef*t.Coef, t.Var)
	}
	e.constant += coef * other.constant

	return e
}

// Terms returns a copy of the merged terms.
func (e *Expr) Terms() []Term {
	if e == nil {
		return nil
	}
	out := make([]Term, len(e.terms))
	copy(out, e.terms)

	return out
}

// Constant returns the constant part.
func (e *Expr) Constant() float64 {
	if e == nil {
		return 0
	}

	return e.constant
}

// Len returns the number of distinct variables in e.
func (e *Expr) Len() int {
	if e == nil {
		return 0
	}

	return len(e.terms)
}

// Eval evaluates e at x, where x is indexed by Var.Index().
func (e *Expr) Eval(x []float64) float64 {
	if e == nil {
		return 0
	}
	s := e.constant
	for _, t := range e.terms {
		s += t.Coef * x[t.Var.index]
	}

	return s
}

// clone copies e, dropping exact-zero coefficients.
func (e *Expr) clone() *Expr {
	out := NewExpr()
	if e == nil {
		return out
	}
	for _, t := range e.terms {
		if t.Coef != 0 {
			out.Add(t.Coef, t.Var)
		}
	}
	out.constant = e.constant

	return out
}

func (e *Expr) finite() bool {
	if e == nil {
		return true
	}
	if math.IsNaN(e.constant) || math.IsInf(e.constant, 0) {
		return false
	}
	for _, t := range e.terms {
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return false
		}
	}

	return true
}
