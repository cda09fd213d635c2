package script

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
)

// useFunc is the name of the module-acquisition function exposed to
// scripts.
const useFunc = "use"

// deniedModules lists module names that use(...) refuses regardless of
// what has been registered. An entry ending in ".*" matches every
// submodule of that name.
var deniedModules = []string{
	"os",
	"sys",
	"subprocess",
	"shutil",
	"importlib",
	"importlib.*",
}

// moduleDenied reports whether a module name is on the denylist,
// either exactly or through a wildcard submodule entry.
func moduleDenied(name string) bool {
	for _, denied := range deniedModules {
		if sub, ok := strings.CutSuffix(denied, ".*"); ok {
			if strings.HasPrefix(name, sub+".") {
				return true
			}

			continue
		}

		if name == denied {
			return true
		}
	}

	return false
}

// denyVisitor walks a compiled expression tree and records the first
// use(...) call whose module name is a constant on the denylist. It
// lets such scripts be rejected before execution; dynamic module names
// are still checked at call time by the use function itself.
type denyVisitor struct {
	violation string
}

// Visit implements ast.Visitor for denyVisitor.
func (v *denyVisitor) Visit(node *ast.Node) {
	if v.violation != "" {
		return
	}

	call, ok := (*node).(*ast.CallNode)
	if !ok {
		return
	}

	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || callee.Value != useFunc || len(call.Arguments) == 0 {
		return
	}

	name, ok := call.Arguments[0].(*ast.StringNode)
	if !ok {
		return
	}

	if moduleDenied(name.Value) {
		v.violation = name.Value
	}
}

// use returns the module-acquisition function bound to a sandbox's
// module registry. Denylisted names fail with ErrSandbox; unknown
// names fail with a lookup error that surfaces as ErrScriptRuntime.
//
// Denials are additionally recorded on the sandbox, because the expr
// VM does not guarantee the error chain survives its recover path.
func (sb *Sandbox) use() func(string) (any, error) {
	return func(name string) (any, error) {
		if moduleDenied(name) {
			sb.logger.Warn("denied module acquisition",
				slog.String("module", name))

			sb.denied = name

			return nil, ErrSandbox.With(slog.String("module", name))
		}

		mod, ok := sb.modules[name]
		if !ok {
			return nil, NewError("unknown module").
				With(slog.String("module", name))
		}

		return mod, nil
	}
}
