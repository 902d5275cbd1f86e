// Package parser implements the mathex expression front end: constant
// extraction, placeholder substitution, and the recursive descent generator
// that turns the placeholder-only text into an expression tree.
//
// # Architecture
//
// Parsing proceeds in phases over a private working copy of the text:
//
//  1. Pass-through extractors may recognize the whole expression as one
//     opaque literal and short-circuit everything else.
//  2. Leveled extractors replace string, scientific-notation and byte-array
//     literals with unique placeholder tokens, recording their parsed
//     values in a constants table.
//  3. Operator symbols that collide (one being a substring of another) are
//     rewritten to placeholders, longest first, on the working copy of the
//     MathDefinition as well as the text.
//  4. Innermost parenthesis groups and function calls are captured into
//     symbol placeholders, deferring their interior text.
//  5. The generator recursively splits on the lowest precedence tier
//     present, rightmost occurrence first, producing strictly
//     left-associative trees; terminals resolve against the constants
//     table, the symbol table, or the parameter registry.
//
// Every constructed node is offered constant folding immediately, so purely
// literal sub-expressions collapse bottom-up during parsing rather than in
// a separate pass.
//
// Parse failures never panic and are not errors: they surface as a Result
// with Success == false. The error return is reserved for cooperative
// cancellation.
package parser

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/types"
)

// Parse interprets expression against cfg.
func Parse(ctx context.Context, expression string, cfg *Config) (*Result, error) {
	text := strings.TrimSpace(expression)

	for _, pt := range cfg.PassThrough {
		if v, ok := pt.Evaluate(text); ok {
			return &Result{
				Root:    constantNode(v, text),
				Params:  types.NewParameterRegistry(),
				Success: true,
			}, nil
		}
	}

	st := newParseState(ctx, cfg)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	work := st.tokenize(text)
	work = st.rewriteOperators(work)
	st.buildTables()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	work = st.captureGroups(work)
	var root *types.Node
	if !st.failed {
		root = st.generate(work, 0)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if st.failed || root == nil {
		return &Result{Params: st.params, Success: false, Diag: st.diag}, nil
	}
	st.elog.Debug("interpreted expression",
		"parameters", st.params.Len(), "constants", len(st.constants))
	return &Result{Root: root, Params: st.params, Success: true}, nil
}

// constantNode builds a constant node from an extractor-produced value.
func constantNode(value any, original string) *types.Node {
	return types.NewConstant(types.Normalize(value), original)
}

// captureGroups repeatedly replaces the innermost parenthesis group or
// function call with a symbol placeholder until no parentheses remain.
func (st *parseState) captureGroups(text string) string {
	qOpen := regexp.QuoteMeta(st.def.OpenParen)
	qClose := regexp.QuoteMeta(st.def.CloseParen)
	re := regexp.MustCompile(fmt.Sprintf(
		`([A-Za-z_][A-Za-z0-9_]*)?%s([^%s%s]*)%s`, qOpen, qOpen, qClose, qClose))

	for {
		if st.cancelled() {
			return text
		}
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			break
		}
		name := ""
		if m[2] >= 0 {
			name = text[m[2]:m[3]]
		}
		token := st.newToken("s")
		st.symbols[token] = &expressionSymbol{
			funcName: name,
			inner:    text[m[4]:m[5]],
		}
		text = text[:m[0]] + token + text[m[1]:]
	}

	if strings.Contains(text, st.def.OpenParen) || strings.Contains(text, st.def.CloseParen) {
		st.fail(types.ErrUnmatchedParen, "unbalanced parentheses", text)
	}
	return text
}

// generate parses one placeholder-only expression fragment into a node.
// Returns nil and flips the failure flag when the fragment cannot be
// resolved.
func (st *parseState) generate(s string, depth int) *types.Node {
	if st.cancelled() || st.failed {
		return nil
	}
	if depth > st.maxDepth() {
		st.fail(types.ErrDepthExceeded, "expression nesting too deep", s)
		return nil
	}
	if s == "" {
		st.fail(types.ErrEmptyOperand, "missing operand", "")
		return nil
	}

	// Split on the lowest precedence tier present; rightmost occurrence
	// wins, which yields strict left associativity per tier.
	for _, tier := range st.tiers {
		idx, symbol, op, found := st.findSplit(s, st.binary[tier])
		if !found {
			continue
		}
		left := st.generate(s[:idx], depth+1)
		right := st.generate(s[idx+len(symbol):], depth+1)
		if st.failed {
			return nil
		}
		return st.newBinary(op, left, right)
	}

	for _, u := range st.unary {
		if u.symbol != "" && strings.HasPrefix(s, u.symbol) {
			operand := st.generate(s[len(u.symbol):], depth+1)
			if st.failed {
				return nil
			}
			return st.newUnary(u.op, operand)
		}
	}

	return st.terminal(s, depth)
}

// findSplit locates the rightmost occurrence of any operator of one tier
// that sits in a binary position: not at the start of the fragment and not
// directly preceded by another operator (which marks a unary context).
func (st *parseState) findSplit(s string, table map[string]operators.Op) (int, string, operators.Op, bool) {
	type occurrence struct {
		idx    int
		symbol string
		op     operators.Op
	}
	var occs []occurrence
	for symbol, op := range table {
		if symbol == "" {
			continue
		}
		for i := 0; ; {
			j := strings.Index(s[i:], symbol)
			if j < 0 {
				break
			}
			occs = append(occs, occurrence{idx: i + j, symbol: symbol, op: op})
			i += j + 1
		}
	}
	sort.Slice(occs, func(i, j int) bool { return occs[i].idx > occs[j].idx })

	for _, o := range occs {
		if o.idx == 0 {
			continue
		}
		if st.precededByOperator(s, o.idx) {
			continue
		}
		return o.idx, o.symbol, o.op, true
	}
	return 0, "", "", false
}

// newBinary constructs a binary node and immediately offers it constant
// folding.
func (st *parseState) newBinary(op operators.Op, left, right *types.Node) *types.Node {
	node := &types.Node{
		Kind:     types.KindBinary,
		Name:     string(op),
		Type:     operators.ResultType(op, left.Type, right.Type),
		Operands: []*types.Node{left, right},
	}
	if left.IsConstant() && right.IsConstant() {
		cmp := st.cfg.Comparison
		if cmp == nil {
			cmp = operators.Exact
		}
		v, err := operators.ApplyBinary(op, left.Value, right.Value, cmp)
		if err == nil {
			return types.NewConstant(v, "")
		}
		// Folding failures (e.g. division by zero on literals) keep the
		// node unfolded; the error surfaces at compute time.
	}
	return node
}

// newUnary constructs a unary node and immediately offers it constant
// folding.
func (st *parseState) newUnary(op operators.Op, operand *types.Node) *types.Node {
	node := &types.Node{
		Kind:     types.KindUnary,
		Name:     string(op),
		Type:     operand.Type,
		Operands: []*types.Node{operand},
	}
	if op == operators.OpNegate {
		node.Type = types.ValueNumeric
	}
	if operand.IsConstant() {
		v, err := operators.ApplyUnary(op, operand.Value)
		if err == nil {
			return types.NewConstant(v, "")
		}
	}
	return node
}

// terminal resolves a fragment with no operators: an extracted constant, a
// deferred symbol, a keyword or plain numeric literal, or a parameter name.
func (st *parseState) terminal(s string, depth int) *types.Node {
	if node, ok := st.constants[s]; ok {
		// Fresh copy per reference keeps the tree strict.
		return node.DeepClone(nil)
	}
	if sym, ok := st.symbols[s]; ok {
		return st.resolveSymbol(sym, depth)
	}

	switch strings.ToLower(s) {
	case "true":
		return types.NewConstant(true, s)
	case "false":
		return types.NewConstant(false, s)
	}

	if s[0] >= '0' && s[0] <= '9' || s[0] == '.' {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return types.NewConstant(i, s)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return types.NewConstant(f, s)
		}
		st.fail(types.ErrUnknownSymbol, fmt.Sprintf("malformed number %q", s), s)
		return nil
	}

	if isIdentifier(s) && !strings.Contains(s, st.marker) {
		return types.NewParameter(st.params.Declare(s))
	}

	st.fail(types.ErrUnknownSymbol, fmt.Sprintf("unresolvable token %q", s), s)
	return nil
}

// resolveSymbol parses the deferred interior of a parenthesis group or
// function call.
func (st *parseState) resolveSymbol(sym *expressionSymbol, depth int) *types.Node {
	if sym.funcName == "" {
		return st.generate(sym.inner, depth+1)
	}

	name := strings.ToLower(sym.funcName)
	if strings.Contains(sym.funcName, st.marker) {
		st.fail(types.ErrUnknownFunction, "call target is not a function name", sym.funcName)
		return nil
	}

	// Separators are split at the top nesting level only: nested calls and
	// groups are already hidden behind placeholders, and string literals
	// were extracted before any structural processing.
	var args []string
	if strings.TrimSpace(sym.inner) != "" {
		args = strings.Split(sym.inner, st.def.ParameterSeparator)
	}

	if name == "if" && len(args) == 3 {
		return st.conditional(args, depth)
	}

	def, ok := st.cfg.Functions.Lookup(name, len(args))
	if !ok {
		if st.cfg.Functions.Known(name) {
			st.fail(types.ErrArityMismatch,
				fmt.Sprintf("function %q does not accept %d arguments", name, len(args)), name)
		} else {
			st.fail(types.ErrUnknownFunction, fmt.Sprintf("unknown function %q", name), name)
		}
		return nil
	}

	operands := make([]*types.Node, len(args))
	allConstant := true
	for i, arg := range args {
		operands[i] = st.generate(arg, depth+1)
		if st.failed {
			return nil
		}
		allConstant = allConstant && operands[i].IsConstant()
	}

	node := &types.Node{
		Kind:     types.KindFunctionCall,
		Name:     name,
		Operands: operands,
	}
	if def.Deterministic && allConstant {
		values := make([]any, len(operands))
		for i, op := range operands {
			values[i] = op.Value
		}
		if v, err := def.Fn(values...); err == nil {
			return types.NewConstant(types.Normalize(v), "")
		}
	}
	return node
}

// conditional lowers if(condition, then, else) to a ternary node with
// short-circuit evaluation, folding when the condition is constant.
func (st *parseState) conditional(args []string, depth int) *types.Node {
	condition := st.generate(args[0], depth+1)
	then := st.generate(args[1], depth+1)
	alternative := st.generate(args[2], depth+1)
	if st.failed {
		return nil
	}

	if condition.IsConstant() {
		if truth, ok := operators.Truthy(condition.Value); ok {
			if truth {
				return then
			}
			return alternative
		}
	}

	node := &types.Node{
		Kind:     types.KindTernary,
		Name:     "if",
		Operands: []*types.Node{condition, then, alternative},
	}
	if then.Type == alternative.Type {
		node.Type = then.Type
	}
	return node
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if !(s[0] == '_' || (s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}
