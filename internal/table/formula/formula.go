package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gridforge/tabular/internal/table/schema"
)

// ErrBadExpression reports a formula that failed to parse.
var ErrBadExpression = errors.New("bad expression")

// Expr is a compiled formula ready to evaluate against rows.
type Expr struct {
	root    node
	columns []string
}

// Columns lists every column the expression references, in first-use order.
func (e *Expr) Columns() []string { return e.columns }

type node interface {
	eval(row schema.Row) (float64, error)
}

type literal float64

func (l literal) eval(schema.Row) (float64, error) { return float64(l), nil }

type columnRef string

func (c columnRef) eval(row schema.Row) (float64, error) {
	n, ok := schema.Number(row.Get(string(c)))
	if !ok {
		return 0, fmt.Errorf("column %s: value %q is not numeric",
			string(c), schema.Text(row.Get(string(c))))
	}
	return n, nil
}

type unary struct {
	operand node
}

func (u unary) eval(row schema.Row) (float64, error) {
	v, err := u.operand.eval(row)
	return -v, err
}

type binary struct {
	op          byte
	left, right node
}

func (b binary) eval(row schema.Row) (float64, error) {
	l, err := b.left.eval(row)
	if err != nil {
		return 0, err
	}
	r, err := b.right.eval(row)
	if err != nil {
		return 0, err
	}
	switch b.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	default:
		if r == 0 {
			return 0, errors.New("division by zero")
		}
		return l / r, nil
	}
}

// Compile parses an expression once so it can be evaluated per row.
func Compile(input string) (*Expr, error) {
	p := &parser{input: input}
	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("%w: unexpected %q at position %d",
			ErrBadExpression, p.input[p.pos], p.pos)
	}
	return &Expr{root: root, columns: p.columns}, nil
}

// Eval computes the expression for one row.
func (e *Expr) Eval(row schema.Row) (float64, error) {
	v, err := e.root.eval(row)
	if err != nil {
		return 0, err
	}
	return schema.Round2(v), nil
}

// Apply evaluates the expression for every row and writes the result
// into a new column, returning fresh rows. Rows where evaluation fails
// get an empty cell and an issue entry instead of aborting the batch.
func Apply(rows []schema.Row, key, expression string) ([]schema.Row, []string, error) {
	expr, err := Compile(expression)
	if err != nil {
		return nil, nil, err
	}
	out := make([]schema.Row, 0, len(rows))
	var issues []string
	for i, row := range rows {
		clone := row.Clone()
		v, err := expr.Eval(row)
		if err != nil {
			clone.Fields[key] = ""
			issues = append(issues, fmt.Sprintf("row %d: %v", i, err))
		} else {
			clone.Fields[key] = v
		}
		out = append(out, clone)
	}
	return out, issues, nil
}

// parser is a scanning recursive-descent parser over the raw input.
type parser struct {
	input   string
	pos     int
	columns []string
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseProduct() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return unary{operand: operand}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (node, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrBadExpression)
		}
		p.pos++
		return inner, nil
	case c == '[':
		return p.parseBracketRef()
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(rune(c)):
		return p.parseBareRef()
	case c == 0:
		return nil, fmt.Errorf("%w: unexpected end of input", ErrBadExpression)
	default:
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrBadExpression, c, p.pos)
	}
}

func (p *parser) parseNumber() (node, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q", ErrBadExpression, p.input[start:p.pos])
	}
	return literal(v), nil
}

// parseBracketRef reads a [bracketed] column reference, allowing labels
// with spaces.
func (p *parser) parseBracketRef() (node, error) {
	p.pos++
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated column reference", ErrBadExpression)
	}
	name := strings.TrimSpace(p.input[p.pos : p.pos+end])
	p.pos += end + 1
	if name == "" {
		return nil, fmt.Errorf("%w: empty column reference", ErrBadExpression)
	}
	p.recordColumn(name)
	return columnRef(name), nil
}

func (p *parser) parseBareRef() (node, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(rune(p.input[p.pos])) {
		p.pos++
	}
	name := p.input[start:p.pos]
	p.recordColumn(name)
	return columnRef(name), nil
}

func (p *parser) recordColumn(name string) {
	for _, c := range p.columns {
		if c == name {
			return
		}
	}
	p.columns = append(p.columns, name)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
