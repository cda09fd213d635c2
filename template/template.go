package template

import (
	"log/slog"
	"maps"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tagweave/tagweave/log"
	"github.com/tagweave/tagweave/script"
)

// Marker patterns recognized inside content. A simple reference name
// contains neither '>' nor '('; a parameterized reference allows '('
// in the name position but no '>' anywhere inside the marker.
var (
	simpleTagPattern = regexp.MustCompile(`<<([^>(]+)>>`)
	paramTagPattern  = regexp.MustCompile(`<<([^>]+)\(([^>]+)\)>>`)
)

// Template owns a tag table and one script sandbox, and rewrites
// placeholder markers in content against them.
//
// A Template is not safe for concurrent use: the tag table and the
// sandbox environment are mutated in place.
type Template struct {
	name    string
	path    string
	logger  log.Logger
	engine  *script.Sandbox
	tags    map[string]string
	order   []string
	globals map[string]any
	content Content
}

// Option applies a configuration option to a Template under
// construction.
type Option func(*Template)

// WithName sets the instance name used in diagnostics and as the
// sandbox name.
func WithName(name string) Option {
	return func(t *Template) {
		t.name = name
	}
}

// WithLogger sets the logger for resolver diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(t *Template) {
		t.logger = logger
	}
}

// WithGlobals seeds the sandbox environment with initial globals.
// Unlike post-construction registration, these silently override the
// sandbox's seeded defaults on name collision.
func WithGlobals(globals map[string]any) Option {
	return func(t *Template) {
		maps.Copy(t.globals, globals)
	}
}

// WithContent sets the template body directly, for templates built
// without a document file.
func WithContent(content Content) Option {
	return func(t *Template) {
		t.content = content
	}
}

// New creates an empty Template with no tags and no body.
func New(opts ...Option) *Template {
	t := &Template{
		name:    "default",
		logger:  log.Default(),
		tags:    map[string]string{},
		globals: map[string]any{},
	}

	for _, opt := range opts {
		opt(t)
	}

	t.logger = t.logger.With(slog.String("template", t.name))
	t.engine = script.New(t.name, t.globals, script.WithLogger(t.logger))

	return t
}

// Load creates a Template from a document file. Any document error
// (bad path, version mismatch, missing body) aborts construction; no
// partially-initialized Template is returned.
func Load(path string, opts ...Option) (*Template, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	t := New(append([]Option{WithName(filepath.Base(path))}, opts...)...)
	t.path = path
	t.content = doc.Content

	for _, tag := range doc.Tags {
		t.CreateTag(tag.Name, tag.Raw)
	}

	t.logger.Debug("template loaded",
		slog.String("path", path),
		slog.Int("tags", len(doc.Tags)),
	)

	return t, nil
}

// Name returns the instance name.
func (t *Template) Name() string { return t.name }

// Path returns the document path the template was loaded from, if any.
func (t *Template) Path() string { return t.path }

// Content returns the template body.
func (t *Template) Content() Content { return t.content }

// SetContent replaces the template body.
func (t *Template) SetContent(content Content) { t.content = content }

// Engine returns the sandbox evaluating this template's scripts, for
// callers that register helper modules.
func (t *Template) Engine() *script.Sandbox { return t.engine }

// Tags returns the registered tags in insertion order.
func (t *Template) Tags() []Tag {
	tags := make([]Tag, 0, len(t.order))
	for _, name := range t.order {
		tags = append(tags, Tag{Name: name, Raw: t.tags[name]})
	}

	return tags
}

// CreateTag registers a tag. An existing tag of the same name is
// replaced, with a warning.
func (t *Template) CreateTag(name, raw string) {
	if _, exists := t.tags[name]; exists {
		t.logger.Warn("replacing existing tag", slog.String("tag", name))
	} else {
		t.order = append(t.order, name)
	}

	t.tags[name] = raw
	t.logger.Debug("created tag",
		slog.String("tag", name),
		slog.String("raw", raw),
	)
}

// RemoveTag unregisters a tag. Removing an absent tag is a no-op with
// a warning.
func (t *Template) RemoveTag(name string) {
	if _, exists := t.tags[name]; !exists {
		t.logger.Warn("attempted to remove nonexistent tag",
			slog.String("tag", name))

		return
	}

	delete(t.tags, name)
	t.order = slices.DeleteFunc(t.order, func(n string) bool {
		return n == name
	})
}

// RegisterGlobals makes bindings available to script expressions. A
// name that is already registered is skipped with a warning rather
// than overwritten; this asymmetry with CreateTag is deliberate.
func (t *Template) RegisterGlobals(globals map[string]any) {
	for name, value := range globals {
		if _, exists := t.globals[name]; exists {
			t.logger.Warn("attempted to register duplicate global",
				slog.String("global", name))

			continue
		}

		t.globals[name] = value
		t.engine.RegisterGlobals(map[string]any{name: value})
	}
}

// UnregisterGlobals removes bindings from the script environment.
// Absent names are skipped with a warning.
func (t *Template) UnregisterGlobals(names ...string) {
	for _, name := range names {
		if _, exists := t.globals[name]; !exists {
			t.logger.Warn("attempted to unregister nonexistent global",
				slog.String("global", name))

			continue
		}

		delete(t.globals, name)
		t.engine.UnregisterGlobals(name)
	}
}

// EvaluateTag resolves a tag by name. The second return distinguishes
// an unregistered name (false, marker left untouched by Replace) from
// a registered tag that legitimately resolves to nil. Script tags are
// parsed and run with zero arguments; literal tags return their raw
// value as-is.
func (t *Template) EvaluateTag(name string) (any, bool, error) {
	raw, ok := t.tags[name]
	if !ok {
		return nil, false, nil
	}

	if !script.IsScript(raw) {
		return raw, true, nil
	}

	s, ok := script.Parse(raw)
	if !ok {
		return nil, true, script.ErrScriptSyntax.With(
			slog.String("tag", name),
			slog.String("raw", raw),
		)
	}

	value, err := t.engine.Run(s, nil)
	if err != nil {
		return nil, true, err
	}

	return value, true, nil
}

// Replace rewrites every resolvable marker in content.
//
// Two passes run in order. The simple pass substitutes each distinct
// <<name>> whose tag resolves to a non-nil value, replacing all
// occurrences of the exact marker text. The parameterized pass then
// handles each distinct <<name(args)>> whose tag is a registered
// script expression: arguments are resolved as tags, falling back to
// their literal text, and the script is invoked with the resolved
// list. Unresolvable markers are left untouched; evaluation failures
// of registered script tags propagate.
func (t *Template) Replace(content string) (string, error) {
	for _, m := range simpleTagPattern.FindAllStringSubmatch(content, -1) {
		name := m[1]

		value, found, err := t.EvaluateTag(name)
		if err != nil {
			return "", err
		}

		if !found || value == nil {
			continue
		}

		content = strings.ReplaceAll(content, "<<"+name+">>", stringify(value))
	}

	for _, m := range paramTagPattern.FindAllStringSubmatch(content, -1) {
		name, rawArgs := m[1], m[2]

		raw, ok := t.tags[name]
		if !ok || !script.IsScript(raw) {
			// Only script tags accept call arguments.
			continue
		}

		s, ok := script.Parse(raw)
		if !ok {
			return "", script.ErrScriptSyntax.With(
				slog.String("tag", name),
				slog.String("raw", raw),
			)
		}

		args := make([]any, 0, strings.Count(rawArgs, ",")+1)

		for _, arg := range strings.Split(rawArgs, ",") {
			arg = strings.TrimSpace(arg)

			value, found, err := t.EvaluateTag(arg)
			if err != nil {
				return "", err
			}

			if !found || value == nil {
				// Not a tag: pass the token through as literal text.
				value = arg
			}

			args = append(args, value)
		}

		result, err := t.engine.Run(s, args)
		if err != nil {
			return "", err
		}

		marker := "<<" + name + "(" + rawArgs + ")>>"
		content = strings.ReplaceAll(content, marker, stringify(result))
	}

	return content, nil
}

// Render resolves the template body. String bodies get one Replace
// pass; mapping bodies get an independent pass over the stringified
// form of every value, preserving keys and order. An absent body is
// ErrInvalid.
func (t *Template) Render() (Content, error) {
	switch {
	case t.content.kind == contentText:
		out, err := t.Replace(t.content.text)
		if err != nil {
			return Content{}, err
		}

		return TextContent(out), nil

	case t.content.kind == contentMap:
		entries := make([]entry, len(t.content.entries))

		for i, e := range t.content.entries {
			out, err := t.Replace(stringify(e.value))
			if err != nil {
				return Content{}, err
			}

			entries[i] = entry{key: e.key, value: out}
		}

		return Content{kind: contentMap, entries: entries}, nil

	default:
		return Content{}, ErrInvalid.With(
			slog.String("reason", "no template body"),
		)
	}
}

// Document returns the serializable form of the template: the
// supported version, the tags in insertion order, and the body.
func (t *Template) Document() *Document {
	return &Document{
		Version: Version,
		Tags:    t.Tags(),
		Content: t.content,
	}
}

// Save writes the template to path as a document file.
func (t *Template) Save(path string) error {
	if err := t.Document().Save(path); err != nil {
		return err
	}

	t.path = path
	t.logger.Debug("template saved", slog.String("path", path))

	return nil
}
