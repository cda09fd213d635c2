// Package script implements the tagscript expression language: a
// marker syntax for embedding single-expression scripts in tag values,
// and a sandboxed evaluator for running them.
//
// A tag value is a script when it begins with the literal prefix
// "tagscript: ". Two shapes are recognized:
//
//	tagscript: 1 + 1
//	tagscript: (a, b) => a + b
//
// The first is a bare expression; the second declares parameter names
// that are bound positionally at call time. Bodies are compiled and
// run with expr-lang against a per-sandbox environment of named
// globals, so the only operations reachable from a script are
// literals, operators, container literals, identifier lookup, member
// access on environment values, and calls to functions the host
// placed in the environment. There is no dynamic code execution and
// no filesystem primitive in the environment at all; module
// acquisition via use(...) is additionally denylisted (see deny.go).
//
// Scripts run with the caller's privileges against whatever globals
// the caller registers. Do not register capabilities you would not
// hand to the script author.
package script
