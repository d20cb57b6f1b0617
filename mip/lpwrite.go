package mip

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxLineLen is the soft wrap column of WriteLP; CPLEX rejects lines past 510.
const maxLineLen = 200

// WriteLP writes m in CPLEX LP format. Output depends only on the model, so
// identical models produce identical bytes.
func (m *Model) WriteLP(w io.Writer) error {
	if m == nil {
		return ErrNilModel
	}
	bw := bufio.NewWriter(w)
	lw := &lineWriter{w: bw}

	lw.raw(`\ Model: ` + m.name)
	lw.raw(m.sense.String())
	lw.start(" obj:")
	lw.expr(m.obj.terms, m.obj.constant, false)
	lw.end()

	lw.raw("Subject To")
	for _, c := range m.cons {
		lw.start(" " + c.name + ":")
		lw.expr(c.expr.terms, 0, true)
		lw.word(c.sense.String())
		lw.word(formatFloat(c.rhs))
		lw.end()
	}

	lw.raw("Bounds")
	for _, v := range m.vars {
		if line := boundLine(v); line != "" {
			lw.raw(" " + line)
		}
	}

	lw.names("Generals", m.vars, Integer)
	lw.names("Binaries", m.vars, Binary)
	lw.raw("End")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "write LP")
	}

	return nil
}

// ExportLP writes m to path, replacing any existing file.
func (m *Model) ExportLP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "export LP %s", path)
	}
	if err = m.WriteLP(f); err != nil {
		f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "export LP %s", path)
}

// boundLine renders the Bounds entry of v. Every non-binary variable gets
// one so that the reader declares it even when no row mentions it.
func boundLine(v *Var) string {
	lb, ub := v.lb, v.ub
	switch {
	case v.typ == Binary && lb == 0 && ub == 1:
		return ""
	case lb == ub:
		return v.name + " = " + formatFloat(lb)
	case math.IsInf(lb, -1) && math.IsInf(ub, 1):
		return v.name + " free"
	case math.IsInf(ub, 1):
		return v.name + " >= " + formatFloat(lb)
	default:
		return formatFloat(lb) + " <= " + v.name + " <= " + formatFloat(ub)
	}
}

// formatFloat is the shortest round-tripping decimal form of v.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		return "0"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// lineWriter accumulates one logical LP line and wraps it at maxLineLen.
type lineWriter struct {
	w   *bufio.Writer
	cur strings.Builder
}

func (lw *lineWriter) raw(s string) {
	lw.w.WriteString(s)
	lw.w.WriteByte('\n')
}

func (lw *lineWriter) start(s string) {
	lw.cur.Reset()
	lw.cur.WriteString(s)
}

// word appends s, wrapping first when the line would grow too long.
// Continuation lines are indented so they never look like a section keyword.
func (lw *lineWriter) word(s string) {
	if lw.cur.Len()+1+len(s) > maxLineLen {
		lw.raw(lw.cur.String())
		lw.cur.Reset()
		lw.cur.WriteString("  ")
	}
	lw.cur.WriteByte(' ')
	lw.cur.WriteString(s)
}

func (lw *lineWriter) end() {
	lw.raw(lw.cur.String())
	lw.cur.Reset()
}

// expr writes terms and an optional constant. An empty expression is
// written as 0 so that rows always have a left-hand side.
func (lw *lineWriter) expr(terms []Term, constant float64, emptyAsZero bool) {
	first := true
	for _, t := range terms {
		lw.word(termString(t.Coef, t.Var.name, first))
		first = false
	}
	if constant != 0 {
		lw.word(termString(constant, "", first))
		first = false
	}
	if first && emptyAsZero {
		lw.word("0")
	}
}

func termString(coef float64, name string, first bool) string {
	var b strings.Builder
	switch {
	case coef < 0 && first:
		b.WriteString("-")
	case coef < 0:
		b.WriteString("- ")
	case !first:
		b.WriteString("+ ")
	}
	a := math.Abs(coef)
	if name == "" {
		b.WriteString(formatFloat(a))
		return b.String()
	}
	if a != 1 {
		b.WriteString(formatFloat(a))
		b.WriteByte(' ')
	}
	b.WriteString(name)

	return b.String()
}

// names writes a Generals or Binaries section listing every variable of type
// typ; the section is omitted when empty.
func (lw *lineWriter) names(header string, vars []*Var, typ VarType) {
	started := false
	for _, v := range vars {
		if v.typ != typ {
			continue
		}
		if !started {
			lw.raw(header)
			lw.start("")
			started = true
		}
		lw.word(v.name)
	}
	if started {
		lw.end()
	}
}
