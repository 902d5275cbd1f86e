package mathex

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandrolain/mathex/pkg/cache"
	"github.com/sandrolain/mathex/pkg/evaluator"
	"github.com/sandrolain/mathex/pkg/functions"
	"github.com/sandrolain/mathex/pkg/guard"
	"github.com/sandrolain/mathex/pkg/operators"
	"github.com/sandrolain/mathex/pkg/parser"
	"github.com/sandrolain/mathex/pkg/types"
)

// ParsingService is the engine's entry point. A service owns the operator
// and function registries, initializes them lazily on first use, and hands
// out ComputedExpression artifacts.
//
// A single service may be shared by any number of goroutines: registry
// initialization is guarded by a read/write lock with a double check, and
// Interpret calls are independent after initialization, each working on
// private parse state.
type ParsingService struct {
	mu          sync.RWMutex
	initialized bool

	def      types.MathDefinition
	language language.Tag
	logger   *slog.Logger

	pendingFuncs []functions.Definition
	pendingExt   []parser.LeveledExtractor
	pendingPass  []parser.PassThroughExtractor
	formatters   []evaluator.Formatter

	funcs *functions.Registry
	cfg   *parser.Config
}

// ServiceOption configures a ParsingService.
type ServiceOption func(*ParsingService)

// WithMathDefinition replaces the default operator symbol set.
func WithMathDefinition(def types.MathDefinition) ServiceOption {
	return func(s *ParsingService) { s.def = def }
}

// WithPrecedenceStyle selects the logical-operator precedence layout.
func WithPrecedenceStyle(style types.PrecedenceStyle) ServiceOption {
	return func(s *ParsingService) { s.def.Style = style }
}

// WithLanguage sets the collation locale used for string comparison.
func WithLanguage(tag language.Tag) ServiceOption {
	return func(s *ParsingService) { s.language = tag }
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *ParsingService) { s.logger = logger }
}

// NewParsingService creates a service with the default symbol set and the
// builtin function catalog. Registries are populated on first use, not
// here, so registration hooks stay open until then.
func NewParsingService(opts ...ServiceOption) *ParsingService {
	s := &ParsingService{
		def:      types.DefaultMathDefinition(),
		language: language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Interpret parses expression into a ComputedExpression.
//
// It returns an error only for invalid arguments (empty or whitespace
// expression), post-initialization misuse surfaced during lazy setup, or
// context cancellation. A syntactically invalid expression is a normal,
// expected outcome: the returned artifact reports Success() == false and
// does not compute.
func (s *ParsingService) Interpret(ctx context.Context, expression string) (*ComputedExpression, error) {
	if err := guard.NotNullOrWhitespace("expression", expression); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	result, err := parser.Parse(ctx, expression, s.cfg)
	if err != nil {
		return nil, err
	}

	return &ComputedExpression{
		source:     expression,
		root:       result.Root,
		params:     result.Params,
		success:    result.Success,
		diag:       result.Diag,
		funcs:      s.funcs,
		formatters: s.formatters,
		language:   s.language,
		logger:     s.logger,
		programs:   cache.New[evaluator.Program](programCacheSize),
	}, nil
}

// programCacheSize bounds the per-expression compiled program cache. One
// entry per distinct argument-type signature (and tolerance) is plenty for
// realistic call sites.
const programCacheSize = 16

// RegisterFunction adds a function definition. Registration only works
// before the first Interpret call on this service.
func (s *ParsingService) RegisterFunction(def functions.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return types.NewError(types.ErrAlreadyInitialized,
			"cannot register functions after the service has been used", -1)
	}
	s.pendingFuncs = append(s.pendingFuncs, def)
	return nil
}

// RegisterExtractor adds a constant extractor at the given level; pass a
// non-positive level for the next free auto-incremented one. Registration
// only works before the first Interpret call.
func (s *ParsingService) RegisterExtractor(level int, ex parser.Extractor) error {
	if err := guard.NotNil("extractor", ex); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return types.NewError(types.ErrAlreadyInitialized,
			"cannot register extractors after the service has been used", -1)
	}
	s.pendingExt = append(s.pendingExt, parser.LeveledExtractor{Level: level, Extractor: ex})
	return nil
}

// RegisterPassThroughExtractor adds a pass-through extractor. Registration
// only works before the first Interpret call.
func (s *ParsingService) RegisterPassThroughExtractor(ex parser.PassThroughExtractor) error {
	if err := guard.NotNil("extractor", ex); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return types.NewError(types.ErrAlreadyInitialized,
			"cannot register extractors after the service has been used", -1)
	}
	s.pendingPass = append(s.pendingPass, ex)
	return nil
}

// RegisterFormatter adds a string formatter consulted by string coercion.
// Registration only works before the first Interpret call.
func (s *ParsingService) RegisterFormatter(f evaluator.Formatter) error {
	if err := guard.NotNil("formatter", f); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return types.NewError(types.ErrAlreadyInitialized,
			"cannot register formatters after the service has been used", -1)
	}
	s.formatters = append(s.formatters, f)
	return nil
}

// GetRegisteredFunctions returns the human-readable prototypes of every
// registered function, initializing the registries if needed.
func (s *ParsingService) GetRegisteredFunctions() []string {
	if err := s.ensureInitialized(); err != nil {
		return nil
	}
	return s.funcs.Prototypes()
}

// ensureInitialized performs the one-time registry population. Many
// concurrent readers pass the fast path once initialized; exactly one
// writer performs the setup, re-checking after acquiring the write lock so
// concurrent first calls cannot populate twice.
func (s *ParsingService) ensureInitialized() error {
	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	funcs := functions.Builtins()
	for _, def := range s.pendingFuncs {
		if err := funcs.Register(def); err != nil {
			return err
		}
	}

	extractors := parser.DefaultExtractors(s.def.StringIndicator, s.def.EscapeCharacter)
	nextLevel := parser.LevelUser
	for _, le := range s.pendingExt {
		if le.Level <= 0 {
			le.Level = nextLevel
			nextLevel++
		}
		extractors = append(extractors, le)
	}

	passThrough := append([]parser.PassThroughExtractor{
		&parser.StringPassThrough{Indicator: s.def.StringIndicator, Escape: s.def.EscapeCharacter},
	}, s.pendingPass...)

	// Folding needs the same collator and formatters Compute will use, so
	// a constant sub-expression cannot disagree with the parameter path.
	// Tolerance stays out: it is supplied per Compute call, never at parse.
	cmp := &operators.Comparison{Collator: collate.New(s.language)}
	for _, f := range s.formatters {
		f := f
		cmp.Formatters = append(cmp.Formatters, func(v any) (string, bool) { return f(v) })
	}

	s.funcs = funcs
	s.cfg = &parser.Config{
		Definition:  s.def,
		Functions:   funcs,
		Extractors:  extractors,
		PassThrough: passThrough,
		Comparison:  cmp,
		Logger:      s.logger,
	}
	s.initialized = true
	return nil
}
