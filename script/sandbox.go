package script

import (
	"errors"
	"log/slog"
	"maps"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tagweave/tagweave/log"
)

// Sandbox evaluates script expressions against a mutable set of named
// globals. The environment is seeded at construction with a scoped log
// handle, the builtin helpers (env.go), and the use(...) module
// function; caller-supplied globals silently override the seeds on
// name collision.
//
// A Sandbox is not safe for concurrent use: globals and modules are
// mutated in place.
type Sandbox struct {
	name    string
	env     map[string]any
	modules map[string]any
	logger  log.Logger
	denied  string // module name recorded by use() on denial
}

// Option applies a configuration option to a Sandbox under
// construction.
type Option func(*Sandbox)

// WithLogger sets the logger used for sandbox diagnostics and exposed
// to scripts as the log global.
func WithLogger(logger log.Logger) Option {
	return func(sb *Sandbox) {
		sb.logger = logger
	}
}

// New creates a Sandbox named name whose environment is seeded with
// the builtin helpers plus the given globals.
func New(name string, globals map[string]any, opts ...Option) *Sandbox {
	sb := &Sandbox{
		name:   name,
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(sb)
	}

	sb.logger = sb.logger.With(slog.String("sandbox", name))

	sb.env = makeEnvCache()
	sb.modules = makeEnvCache()

	sb.env["log"] = sb.logger
	sb.env[useFunc] = sb.use()

	maps.Copy(sb.env, globals)

	return sb
}

// Name returns the sandbox instance name.
func (sb *Sandbox) Name() string { return sb.name }

// Run evaluates a parsed script with the given positional arguments.
//
// When the script declares parameters, len(args) must equal the
// parameter count (ErrArgumentCount otherwise) and each argument is
// bound to its parameter name for the duration of the call. When it
// declares none, the body is evaluated directly and args is ignored.
//
// Compilation and evaluation failures are wrapped as ErrScriptRuntime
// carrying the cause and source text; denied module acquisition
// surfaces as ErrSandbox.
func (sb *Sandbox) Run(s Script, args []any) (any, error) {
	sb.denied = ""

	env := maps.Clone(sb.env)

	if len(s.Params) > 0 {
		if len(args) != len(s.Params) {
			return nil, ErrArgumentCount.With(
				slog.String("source", s.Body),
				slog.Int("expected", len(s.Params)),
				slog.Int("got", len(args)),
			)
		}

		for i, param := range s.Params {
			env[param] = args[i]
		}
	}

	visitor := &denyVisitor{}

	program, err := expr.Compile(s.Body, expr.Env(env), expr.Patch(visitor))
	if err != nil {
		return nil, ErrScriptRuntime.Wrap(err).
			With(slog.String("source", s.Body))
	}

	if visitor.violation != "" {
		sb.logger.Warn("denied module acquisition",
			slog.String("module", visitor.violation))

		return nil, ErrSandbox.With(
			slog.String("module", visitor.violation),
			slog.String("source", s.Body),
		)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		if sb.denied != "" || errors.Is(err, ErrSandbox) {
			return nil, ErrSandbox.Wrap(err).With(
				slog.String("module", sb.denied),
				slog.String("source", s.Body),
			)
		}

		return nil, ErrScriptRuntime.Wrap(err).
			With(slog.String("source", s.Body))
	}

	sb.logger.Debug("script evaluated",
		slog.String("source", s.Body),
		slog.Int("args", len(args)),
	)

	return result, nil
}

// RegisterGlobals adds bindings to the environment, silently
// overwriting existing names. Duplicate rejection is enforced one
// layer up, by the template resolver.
func (sb *Sandbox) RegisterGlobals(globals map[string]any) {
	maps.Copy(sb.env, globals)
}

// UnregisterGlobals removes bindings from the environment. Absent
// names are silently ignored here; the resolver diagnoses them.
func (sb *Sandbox) UnregisterGlobals(names ...string) {
	for _, name := range names {
		delete(sb.env, name)
	}
}

// RegisterModule adds a module to the registry consulted by use(...).
// Denylisted names remain denied even when registered.
func (sb *Sandbox) RegisterModule(name string, module any) {
	sb.modules[name] = module
}
