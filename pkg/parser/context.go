package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/sandrolain/mathex/pkg/functions"
	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/types"
)

// Config carries the shared, read-only services a parse runs against. The
// parsing service builds one Config at initialization time and reuses it for
// every Interpret call.
type Config struct {
	// Definition is the caller's symbol configuration; each parse works on
	// a clone and never mutates this value.
	Definition types.MathDefinition
	// Functions resolves function calls by name and arity.
	Functions *functions.Registry
	// Extractors is the leveled constant-extraction pipeline.
	Extractors []LeveledExtractor
	// PassThrough are tried first and may short-circuit the whole parse.
	PassThrough []PassThroughExtractor
	// Comparison supplies the collator and formatters used when folding
	// constant sub-expressions, so literal operands behave exactly like
	// parameter values at compute time. Nil means operators.Exact.
	Comparison *operators.Comparison
	// MaxDepth bounds recursive descent. Zero means the default of 100.
	MaxDepth int
	// Logger receives debug events; nil disables logging.
	Logger *slog.Logger
}

// Result is the outcome of one parse.
type Result struct {
	// Root is the expression tree, nil when Success is false.
	Root *types.Node
	// Params is the parameter registry in first-seen order.
	Params *types.ParameterRegistry
	// Success reports whether the expression parsed.
	Success bool
	// Diag carries the first parse diagnostic when Success is false. It is
	// informational: parse failures are not errors.
	Diag error
}

// expressionSymbol is a named sub-expression extracted during
// parenthesis/function splitting. The inner text stays unparsed until the
// token is referenced.
type expressionSymbol struct {
	// funcName is the function being called, empty for a plain group.
	funcName string
	// inner is the not-yet-parsed text between the parentheses.
	inner string
}

// markerAlphabet deliberately contains no digits and no characters that
// could complete a numeric or operator pattern, so a marker can never be
// matched by an extractor or split by the generator.
const markerAlphabet = "bcdfghjklmnpqrstvwz"

// parseState is the private working state of one Interpret call. It is
// created at entry, threaded through the recursive descent, and discarded
// on every exit path; nothing in it outlives the call.
type parseState struct {
	ctx  context.Context
	cfg  *Config
	def  types.MathDefinition // working clone, operator fields may be rewritten
	elog *slog.Logger

	marker  string
	counter int

	constants map[string]*types.Node // placeholder token -> constant node
	reverse   map[string]string      // original literal text -> placeholder token
	symbols   map[string]*expressionSymbol
	params    *types.ParameterRegistry

	binary    map[int]map[string]operators.Op
	tiers     []int
	unary     []unaryEntry
	operators []string // every operator spelling after rewriting, longest first

	failed bool
	diag   error
}

type unaryEntry struct {
	symbol string
	op     operators.Op
}

func newParseState(ctx context.Context, cfg *Config) *parseState {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &parseState{
		ctx:       ctx,
		cfg:       cfg,
		def:       cfg.Definition.Clone(),
		elog:      logger,
		marker:    "zq" + gonanoid.MustGenerate(markerAlphabet, 12),
		constants: make(map[string]*types.Node),
		reverse:   make(map[string]string),
		symbols:   make(map[string]*expressionSymbol),
		params:    types.NewParameterRegistry(),
	}
}

// newToken mints a placeholder token of the given class ("c" constant, "s"
// symbol, "o" operator). Tokens embed the per-parse marker, so they are
// unique within the parse and cannot collide with user-writable text.
func (st *parseState) newToken(class string) string {
	st.counter++
	return fmt.Sprintf("%s%s%06d", st.marker, class, st.counter)
}

// fail records the first diagnostic and flips the parse into failure mode.
func (st *parseState) fail(code types.ErrorCode, message, token string) {
	if !st.failed {
		st.failed = true
		st.diag = types.NewError(code, message, -1).WithToken(token)
		st.elog.Debug("parse failure", "code", string(code), "message", message, "token", token)
	}
}

// cancelled reports cooperative cancellation. It flips the failure flag so
// descent unwinds promptly; the top-level Parse surfaces ctx.Err() itself.
func (st *parseState) cancelled() bool {
	if err := st.ctx.Err(); err != nil {
		st.failed = true
		return true
	}
	return false
}

func (st *parseState) maxDepth() int {
	if st.cfg.MaxDepth > 0 {
		return st.cfg.MaxDepth
	}
	return 100
}

// rewriteOperators replaces every operator symbol that collides with
// another (one being a substring of the other) with a unique placeholder,
// longest symbol first, remapping the working definition's own fields so
// later table lookups keep working. After the rewrite no operator spelling
// is a substring of any other.
func (st *parseState) rewriteOperators(text string) string {
	fields := st.def.OperatorSymbols()

	spellings := make([]string, 0, len(fields))
	seen := make(map[string]bool)
	for _, f := range fields {
		if *f != "" && !seen[*f] {
			seen[*f] = true
			spellings = append(spellings, *f)
		}
	}

	colliding := make([]string, 0, len(spellings))
	for _, s := range spellings {
		for _, other := range spellings {
			if s != other && (strings.Contains(other, s) || strings.Contains(s, other)) {
				colliding = append(colliding, s)
				break
			}
		}
	}
	// Longest first, so rewriting "<=" cannot corrupt a later "<" pass.
	sort.Slice(colliding, func(i, j int) bool {
		if len(colliding[i]) != len(colliding[j]) {
			return len(colliding[i]) > len(colliding[j])
		}
		return colliding[i] < colliding[j]
	})

	for _, spelling := range colliding {
		token := st.newToken("o")
		text = strings.ReplaceAll(text, spelling, token)
		for _, f := range fields {
			if *f == spelling {
				*f = token
			}
		}
	}
	return text
}

// buildTables derives the leveled operator tables from the (rewritten)
// working definition.
func (st *parseState) buildTables() {
	st.binary = operators.LeveledBinary(&st.def)
	st.tiers = st.tiers[:0]
	for tier := range st.binary {
		st.tiers = append(st.tiers, tier)
	}
	sort.Ints(st.tiers)

	st.unary = st.unary[:0]
	for symbol, op := range operators.Unary(&st.def) {
		st.unary = append(st.unary, unaryEntry{symbol: symbol, op: op})
	}
	sort.Slice(st.unary, func(i, j int) bool {
		return len(st.unary[i].symbol) > len(st.unary[j].symbol)
	})

	st.operators = st.operators[:0]
	seen := make(map[string]bool)
	for _, table := range st.binary {
		for symbol := range table {
			if symbol != "" && !seen[symbol] {
				seen[symbol] = true
				st.operators = append(st.operators, symbol)
			}
		}
	}
	for _, u := range st.unary {
		if !seen[u.symbol] {
			seen[u.symbol] = true
			st.operators = append(st.operators, u.symbol)
		}
	}
	sort.Slice(st.operators, func(i, j int) bool {
		return len(st.operators[i]) > len(st.operators[j])
	})
}

// precededByOperator reports whether the text just before idx ends with an
// operator spelling, which marks the occurrence at idx as a unary context
// rather than a binary split point.
func (st *parseState) precededByOperator(s string, idx int) bool {
	prefix := s[:idx]
	for _, spelling := range st.operators {
		if strings.HasSuffix(prefix, spelling) {
			return true
		}
	}
	return false
}
