package script

import (
	"errors"
	"runtime"
	"testing"

	"github.com/tagweave/tagweave/log"
)

func testSandbox(t *testing.T, globals map[string]any) *Sandbox {
	t.Helper()

	return New(t.Name(), globals, WithLogger(log.Discard()))
}

func mustParse(t *testing.T, raw string) Script {
	t.Helper()

	s, ok := Parse(raw)
	if !ok {
		t.Fatalf("not a script: %q", raw)
	}

	return s
}

func TestRun_Arithmetic(t *testing.T) {
	sb := testSandbox(t, nil)

	result, err := sb.Run(mustParse(t, "tagscript: 1 + 1"), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 2 {
		t.Errorf("expected 2, got %v (%T)", result, result)
	}
}

func TestRun_ParameterBinding(t *testing.T) {
	sb := testSandbox(t, nil)
	s := mustParse(t, "tagscript: (a, b) => a + b")

	result, err := sb.Run(s, []any{1, 2})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 3 {
		t.Errorf("expected 3, got %v (%T)", result, result)
	}
}

func TestRun_ArgumentCountMismatch(t *testing.T) {
	sb := testSandbox(t, nil)
	s := mustParse(t, "tagscript: (a, b) => a + b")

	for _, args := range [][]any{nil, {1}, {1, 2, 3}} {
		_, err := sb.Run(s, args)
		if !errors.Is(err, ErrArgumentCount) {
			t.Errorf("args %v: expected ErrArgumentCount, got %v", args, err)
		}
	}
}

func TestRun_ZeroParamsIgnoresArgs(t *testing.T) {
	sb := testSandbox(t, nil)

	result, err := sb.Run(mustParse(t, "tagscript: () => 7"), []any{1, 2})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 7 {
		t.Errorf("expected 7, got %v", result)
	}
}

func TestRun_Globals(t *testing.T) {
	sb := testSandbox(t, map[string]any{"greeting": "hello"})

	result, err := sb.Run(mustParse(t, `tagscript: greeting + ", world"`), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != "hello, world" {
		t.Errorf("expected greeting, got %v", result)
	}
}

func TestRun_UnknownNameIsRuntimeError(t *testing.T) {
	sb := testSandbox(t, nil)

	_, err := sb.Run(mustParse(t, "tagscript: missing + 1"), nil)
	if !errors.Is(err, ErrScriptRuntime) {
		t.Errorf("expected ErrScriptRuntime, got %v", err)
	}
}

func TestRun_RuntimeFailureWrapped(t *testing.T) {
	sb := testSandbox(t, map[string]any{
		"boom": func() (any, error) { return nil, errors.New("kaput") },
	})

	_, err := sb.Run(mustParse(t, "tagscript: boom()"), nil)
	if !errors.Is(err, ErrScriptRuntime) {
		t.Fatalf("expected ErrScriptRuntime, got %v", err)
	}
}

func TestRun_RegisterGlobalsOverwrites(t *testing.T) {
	sb := testSandbox(t, map[string]any{"x": 1})
	sb.RegisterGlobals(map[string]any{"x": 2})

	result, err := sb.Run(mustParse(t, "tagscript: x"), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 2 {
		t.Errorf("expected overwritten global 2, got %v", result)
	}
}

func TestRun_UnregisterGlobals(t *testing.T) {
	sb := testSandbox(t, map[string]any{"x": 1})
	sb.UnregisterGlobals("x", "never-registered")

	_, err := sb.Run(mustParse(t, "tagscript: x"), nil)
	if !errors.Is(err, ErrScriptRuntime) {
		t.Errorf("expected lookup failure after unregister, got %v", err)
	}
}

func TestRun_GlobalsOverrideBuiltins(t *testing.T) {
	sb := testSandbox(t, map[string]any{"hostname": "pinned"})

	result, err := sb.Run(mustParse(t, "tagscript: hostname"), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != "pinned" {
		t.Errorf("expected caller global to shadow builtin, got %v", result)
	}
}

func TestRun_BuiltinPlatform(t *testing.T) {
	sb := testSandbox(t, nil)

	result, err := sb.Run(mustParse(t, "tagscript: platform.os"), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != runtime.GOOS {
		t.Errorf("expected %q, got %v", runtime.GOOS, result)
	}
}

func TestUse_DeniedConstant(t *testing.T) {
	sb := testSandbox(t, nil)

	for _, body := range []string{
		`tagscript: use("os")`,
		`tagscript: use("sys")`,
		`tagscript: use("subprocess")`,
		`tagscript: use("shutil")`,
		`tagscript: use("importlib")`,
		`tagscript: use("importlib.util")`,
	} {
		_, err := sb.Run(mustParse(t, body), nil)
		if !errors.Is(err, ErrSandbox) {
			t.Errorf("%s: expected ErrSandbox, got %v", body, err)
		}
	}
}

// A module name only known at call time bypasses the compile-time
// check and is denied by use itself.
func TestUse_DeniedDynamic(t *testing.T) {
	sb := testSandbox(t, nil)
	s := mustParse(t, "tagscript: (m) => use(m)")

	_, err := sb.Run(s, []any{"os"})
	if !errors.Is(err, ErrSandbox) {
		t.Errorf("expected ErrSandbox, got %v", err)
	}
}

// Registering a global does not open a hole in the denylist.
func TestUse_DeniedRegardlessOfGlobals(t *testing.T) {
	sb := testSandbox(t, map[string]any{"os": "harmless"})
	sb.RegisterModule("os", "still denied")

	_, err := sb.Run(mustParse(t, `tagscript: use("os")`), nil)
	if !errors.Is(err, ErrSandbox) {
		t.Errorf("expected ErrSandbox, got %v", err)
	}
}

func TestUse_UnknownModule(t *testing.T) {
	sb := testSandbox(t, nil)

	_, err := sb.Run(mustParse(t, `tagscript: use("math")`), nil)
	if err == nil {
		t.Fatal("expected error for unknown module")
	}

	if errors.Is(err, ErrSandbox) {
		t.Errorf("unknown module must not be a sandbox violation: %v", err)
	}
}

func TestUse_RegisteredModule(t *testing.T) {
	sb := testSandbox(t, nil)
	sb.RegisterModule("answers", map[string]any{"everything": 42})

	result, err := sb.Run(mustParse(t, `tagscript: use("answers").everything`), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != 42 {
		t.Errorf("expected 42, got %v", result)
	}
}

func TestModuleDenied(t *testing.T) {
	cases := map[string]bool{
		"os":              true,
		"sys":             true,
		"subprocess":      true,
		"shutil":          true,
		"importlib":       true,
		"importlib.util":  true,
		"importlib.abc.x": true,
		"osmosis":         false,
		"math":            false,
		"collections.abc": false,
	}

	for name, want := range cases {
		if got := moduleDenied(name); got != want {
			t.Errorf("moduleDenied(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestBuiltinPathHelpers(t *testing.T) {
	sb := testSandbox(t, nil)

	result, err := sb.Run(mustParse(t, `tagscript: path.cat("a", "b", "c")`), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != "a/b/c" {
		t.Errorf("expected joined path, got %v", result)
	}
}

func TestBuiltinMung(t *testing.T) {
	sb := testSandbox(t, nil)

	s := mustParse(t, `tagscript: mung.prefix("/usr/bin", "/opt/bin")`)

	result, err := sb.Run(s, nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if result != "/opt/bin:/usr/bin" {
		t.Errorf("unexpected mung result: %v", result)
	}
}
