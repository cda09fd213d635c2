package script

// This file defines the builtin helper environment seeded into every
// sandbox. Builtins are pure values and string functions: helpers that
// stat the filesystem or read the process environment are deliberately
// absent, since the sandbox strips filesystem capability entirely.
//
// Builtin names can be shadowed by caller-supplied globals.

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ardnew/mung"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	envCacheOnce sync.Once
	envCache     map[string]any
)

// makeEnvCache returns a clone of the lazily-initialized, process-scoped
// environment of builtin values and functions. The returned map can be
// safely mutated by the caller without affecting the shared cache.
func makeEnvCache() map[string]any {
	envCacheOnce.Do(func() {
		envCache = map[string]any{
			// Host identity (plain string values, captured once).
			"platform": map[string]any{
				"os":   runtime.GOOS,
				"arch": runtime.GOARCH,
			},
			"hostname": getHostname(),

			// Lexical path manipulation. No helper here touches the
			// filesystem.
			"path": map[string]any{
				"cat":   pathCat,
				"base":  filepath.Base,
				"dir":   filepath.Dir,
				"ext":   filepath.Ext,
				"clean": filepath.Clean,
			},

			// PATH-like string manipulation via mung.
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	return maps.Clone(envCache)
}

// BuiltinNames returns the top-level names in the builtin environment.
func BuiltinNames() []string {
	env := makeEnvCache()
	names := make([]string, 0, len(env))

	for k := range env {
		names = append(names, k)
	}

	return names
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}
