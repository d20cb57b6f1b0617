package mip

import (
	"bufio"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type lpSection int

const (
	secNone lpSection = iota
	secObjective
	secConstraints
	secBounds
	secGenerals
	secBinaries
	secUnsupported
	secEnd
)

// lpKeywords are matched case-insensitively at the start of a line.
var lpKeywords = []struct {
	word  string
	sec   lpSection
	sense ObjSense
}{
	{"minimize", secObjective, Minimize},
	{"minimise", secObjective, Minimize},
	{"minimum", secObjective, Minimize},
	{"min", secObjective, Minimize},
	{"maximize", secObjective, Maximize},
	{"maximise", secObjective, Maximize},
	{"maximum", secObjective, Maximize},
	{"max", secObjective, Maximize},
	{"subject to", secConstraints, 0},
	{"such that", secConstraints, 0},
	{"s.t.", secConstraints, 0},
	{"st", secConstraints, 0},
	{"bounds", secBounds, 0},
	{"bound", secBounds, 0},
	{"generals", secGenerals, 0},
	{"general", secGenerals, 0},
	{"gen", secGenerals, 0},
	{"binaries", secBinaries, 0},
	{"binary", secBinaries, 0},
	{"bin", secBinaries, 0},
	{"semi-continuous", secUnsupported, 0},
	{"semis", secUnsupported, 0},
	{"semi", secUnsupported, 0},
	{"sos", secUnsupported, 0},
	{"end", secEnd, 0},
}

// ReadLP parses a CPLEX LP model. Variables are declared in order of first
// appearance and default to continuous with bounds [0, +inf).
func ReadLP(r io.Reader) (*Model, error) {
	p := &lpParser{m: NewModel("")}
	if err := p.scan(r); err != nil {
		return nil, err
	}
	for _, blk := range p.blocks {
		if err := p.parseBlock(blk); err != nil {
			return nil, err
		}
	}

	return p.m, nil
}

// ImportLP reads the LP file at path. Without a "\ Model:" header the model
// is named after the file.
func ImportLP(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "import LP %s", path)
	}
	defer f.Close()

	m, err := ReadLP(f)
	if err != nil {
		return nil, errors.Wrapf(err, "import LP %s", path)
	}
	if m.name == "" {
		m.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return m, nil
}

type tokKind int

const (
	tkNumber tokKind = iota
	tkIdent
	tkSign
	tkOp
	tkColon
)

type token struct {
	kind  tokKind
	text  string
	num   float64
	sense Sense
	line  int
}

type lpBlock struct {
	sec   lpSection
	sense ObjSense
	line  int
	toks  []token
}

type lpParser struct {
	m      *Model
	blocks []*lpBlock
}

// scan splits the input into section blocks of tokens.
func (p *lpParser) scan(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var cur *lpBlock
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '\\'); i >= 0 {
			p.header(line[i+1:])
			line = line[:i]
		}
		body := strings.Join(strings.Fields(line), " ")
		if body == "" {
			continue
		}
		if sec, sense, rest, ok := matchKeyword(body); ok {
			if sec == secEnd {
				return nil
			}
			if sec == secUnsupported {
				return errors.Wrapf(ErrLPUnsupported, "line %d: %s", lineNo, body)
			}
			cur = &lpBlock{sec: sec, sense: sense, line: lineNo}
			p.blocks = append(p.blocks, cur)
			body = rest
		}
		if body == "" {
			continue
		}
		if cur == nil {
			return errors.Wrapf(ErrLPSyntax, "line %d: content before the first section", lineNo)
		}
		toks, err := lex(body, lineNo)
		if err != nil {
			return err
		}
		cur.toks = append(cur.toks, toks...)
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read LP")
	}

	return nil
}

func (p *lpParser) header(comment string) {
	if p.m.name != "" {
		return
	}
	c := strings.TrimSpace(comment)
	for _, prefix := range []string{"Model:", "Problem name:"} {
		if strings.HasPrefix(c, prefix) {
			p.m.name = strings.TrimSpace(strings.TrimPrefix(c, prefix))
			return
		}
	}
}

func matchKeyword(body string) (lpSection, ObjSense, string, bool) {
	lower := strings.ToLower(body)
	for _, kw := range lpKeywords {
		if !strings.HasPrefix(lower, kw.word) {
			continue
		}
		if len(lower) > len(kw.word) && lower[len(kw.word)] != ' ' {
			continue
		}

		return kw.sec, kw.sense, strings.TrimSpace(body[len(kw.word):]), true
	}

	return secNone, 0, "", false
}

func lex(s string, line int) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		ch := s[i]
		switch {
		case ch == ' ':
			i++
		case ch == '+' || ch == '-':
			toks = append(toks, token{kind: tkSign, text: s[i : i+1], line: line})
			i++
		case ch == ':':
			toks = append(toks, token{kind: tkColon, text: ":", line: line})
			i++
		case ch == '<' || ch == '>' || ch == '=':
			j := i + 1
			if j < len(s) && (s[j] == '=' || (ch == '=' && (s[j] == '<' || s[j] == '>'))) {
				j++
			}
			op := s[i:j]
			toks = append(toks, token{kind: tkOp, text: op, sense: opSense(op), line: line})
			i = j
		case isDigit(ch) || ch == '.':
			j := scanNumber(s, i)
			v, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, errors.Wrapf(ErrLPSyntax, "line %d: bad number %q", line, s[i:j])
			}
			toks = append(toks, token{kind: tkNumber, text: s[i:j], num: v, line: line})
			i = j
		case isNameRune(rune(ch)):
			j := i
			for j < len(s) && isNameRune(rune(s[j])) {
				j++
			}
			toks = append(toks, token{kind: tkIdent, text: s[i:j], line: line})
			i = j
		default:
			return nil, errors.Wrapf(ErrLPSyntax, "line %d: unexpected character %q", line, ch)
		}
	}

	return toks, nil
}

func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && (isDigit(s[j]) || s[j] == '.') {
		j++
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}

	return j
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func opSense(op string) Sense {
	switch op {
	case "<", "<=", "=<":
		return LE
	case ">", ">=", "=>":
		return GE
	default:
		return EQ
	}
}

func isInfWord(s string) bool {
	l := strings.ToLower(s)
	return l == "inf" || l == "infinity"
}

// cursor walks the tokens of one block.
type cursor struct {
	toks []token
	pos  int
	line int
}

func (c *cursor) done() bool { return c.pos >= len(c.toks) }

func (c *cursor) peek() token { return c.toks[c.pos] }

// peekIs reports whether the token off places ahead has the given kind.
func (c *cursor) peekIs(off int, kind tokKind) bool {
	return c.pos+off < len(c.toks) && c.toks[c.pos+off].kind == kind
}

func (c *cursor) errorf(format string, args ...interface{}) error {
	line := c.line
	if !c.done() {
		line = c.peek().line
	} else if len(c.toks) > 0 {
		line = c.toks[len(c.toks)-1].line
	}

	return errors.Wrapf(ErrLPSyntax, "line %d: "+format, append([]interface{}{line}, args...)...)
}

func (p *lpParser) parseBlock(blk *lpBlock) error {
	c := &cursor{toks: blk.toks, line: blk.line}
	switch blk.sec {
	case secObjective:
		return p.parseObjective(c, blk.sense)
	case secConstraints:
		return p.parseConstraints(c)
	case secBounds:
		return p.parseBounds(c)
	case secGenerals:
		return p.parseTypes(c, Integer)
	case secBinaries:
		return p.parseTypes(c, Binary)
	}

	return nil
}

func (p *lpParser) parseObjective(c *cursor, sense ObjSense) error {
	if c.peekIs(0, tkIdent) && c.peekIs(1, tkColon) {
		c.pos += 2
	}
	e, err := p.parseExpr(c, false)
	if err != nil {
		return err
	}
	p.m.sense = sense
	p.m.obj = e.clone()

	return nil
}

func (p *lpParser) parseConstraints(c *cursor) error {
	for !c.done() {
		name := ""
		if c.peekIs(0, tkIdent) && c.peekIs(1, tkColon) {
			name = c.peek().text
			c.pos += 2
		}
		lhs, err := p.parseExpr(c, true)
		if err != nil {
			return err
		}
		sense := c.peek().sense
		c.pos++
		rhs, err := p.parseValue(c)
		if err != nil {
			return err
		}
		if math.IsInf(rhs, 0) {
			return c.errorf("infinite right-hand side")
		}
		if _, err = p.m.AddConstraint(name, lhs, sense, NewExpr().AddConst(rhs)); err != nil {
			return errors.Wrapf(err, "line %d", c.toks[c.pos-1].line)
		}
	}

	return nil
}

// parseExpr reads signed terms. With untilOp it stops in front of a
// relational operator and fails if none follows.
func (p *lpParser) parseExpr(c *cursor, untilOp bool) (*Expr, error) {
	e := NewExpr()
	first := true
	for !c.done() {
		if c.peek().kind == tkOp {
			if untilOp {
				return e, nil
			}
			return nil, c.errorf("unexpected %q in objective", c.peek().text)
		}
		sign, signs := 1.0, 0
		for !c.done() && c.peek().kind == tkSign {
			if c.peek().text == "-" {
				sign = -sign
			}
			signs++
			c.pos++
		}
		if c.done() {
			return nil, c.errorf("dangling sign")
		}
		if !first && signs == 0 {
			return nil, c.errorf("missing operator before %q", c.peek().text)
		}
		t := c.peek()
		switch {
		case t.kind == tkNumber:
			c.pos++
			if c.peekIs(0, tkIdent) && !c.peekIs(1, tkColon) && !isInfWord(c.peek().text) {
				v, err := p.variable(c, c.peek().text)
				if err != nil {
					return nil, err
				}
				c.pos++
				e.Add(sign*t.num, v)
			} else {
				e.AddConst(sign * t.num)
			}
		case t.kind == tkIdent && !isInfWord(t.text) && !c.peekIs(1, tkColon):
			v, err := p.variable(c, t.text)
			if err != nil {
				return nil, err
			}
			c.pos++
			e.Add(sign, v)
		default:
			return nil, c.errorf("unexpected %q", t.text)
		}
		first = false
	}
	if untilOp {
		return nil, c.errorf("missing relational operator")
	}

	return e, nil
}

// parseValue reads [sign]* (number | inf | infinity).
func (p *lpParser) parseValue(c *cursor) (float64, error) {
	sign := 1.0
	for !c.done() && c.peek().kind == tkSign {
		if c.peek().text == "-" {
			sign = -sign
		}
		c.pos++
	}
	if c.done() {
		return 0, c.errorf("missing value")
	}
	t := c.peek()
	switch {
	case t.kind == tkNumber:
		c.pos++
		return sign * t.num, nil
	case t.kind == tkIdent && isInfWord(t.text):
		c.pos++
		return sign * math.Inf(1), nil
	}

	return 0, c.errorf("expected a number, got %q", t.text)
}

func (p *lpParser) parseBounds(c *cursor) error {
	for !c.done() {
		if c.peek().kind == tkIdent && !isInfWord(c.peek().text) {
			v, err := p.variable(c, c.peek().text)
			if err != nil {
				return err
			}
			c.pos++
			if c.peekIs(0, tkIdent) && strings.EqualFold(c.peek().text, "free") {
				c.pos++
				if err = p.setBounds(c, v, math.Inf(-1), math.Inf(1)); err != nil {
					return err
				}
				continue
			}
			if err = p.boundAfter(c, v); err != nil {
				return err
			}
			continue
		}

		val, err := p.parseValue(c)
		if err != nil {
			return err
		}
		if !c.peekIs(0, tkOp) || !c.peekIs(1, tkIdent) {
			return c.errorf("malformed bound")
		}
		sense := c.peek().sense
		c.pos++
		v, err := p.variable(c, c.peek().text)
		if err != nil {
			return err
		}
		c.pos++
		lb, ub := v.lb, v.ub
		switch sense {
		case LE:
			lb = val
		case GE:
			ub = val
		default:
			lb, ub = val, val
		}
		if err = p.setBounds(c, v, lb, ub); err != nil {
			return err
		}
		if c.peekIs(0, tkOp) {
			if err = p.boundAfter(c, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// boundAfter applies "op value" following variable v.
func (p *lpParser) boundAfter(c *cursor, v *Var) error {
	if !c.peekIs(0, tkOp) {
		return c.errorf("expected a relational operator after %q", v.name)
	}
	sense := c.peek().sense
	c.pos++
	val, err := p.parseValue(c)
	if err != nil {
		return err
	}
	lb, ub := v.lb, v.ub
	switch sense {
	case LE:
		ub = val
	case GE:
		lb = val
	default:
		lb, ub = val, val
	}

	return p.setBounds(c, v, lb, ub)
}

func (p *lpParser) setBounds(c *cursor, v *Var, lb, ub float64) error {
	if err := checkBounds(lb, ub); err != nil {
		return c.errorf("bounds [%g, %g] for %q", lb, ub, v.name)
	}
	v.lb, v.ub = lb, ub

	return nil
}

func (p *lpParser) parseTypes(c *cursor, typ VarType) error {
	for ; !c.done(); c.pos++ {
		t := c.peek()
		if t.kind != tkIdent {
			return c.errorf("expected a variable name, got %q", t.text)
		}
		v, err := p.variable(c, t.text)
		if err != nil {
			return err
		}
		v.typ = typ
		if typ == Binary {
			lb, ub := math.Max(v.lb, 0), math.Min(v.ub, 1)
			if err = p.setBounds(c, v, lb, ub); err != nil {
				return err
			}
		}
	}

	return nil
}

// variable returns the named variable, declaring it on first use.
func (p *lpParser) variable(c *cursor, name string) (*Var, error) {
	if v, ok := p.m.varNames[name]; ok {
		return v, nil
	}
	v, err := p.m.AddVar(name, 0, Inf, Continuous)
	if err != nil {
		return nil, c.errorf("%v", err)
	}

	return v, nil
}
