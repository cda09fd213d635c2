package template

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
)

// contentKind discriminates the template body shapes.
type contentKind int

const (
	contentNone contentKind = iota // no body loaded
	contentText                    // single string body
	contentMap                     // string-keyed mapping body
)

// entry is one key/value pair of a mapping body, in document order.
type entry struct {
	key   string
	value any
}

// Content is a template body: either a single string or an ordered
// string-keyed mapping. The zero value means "no body".
type Content struct {
	entries []entry
	text    string
	kind    contentKind
}

// TextContent returns a string-bodied Content.
func TextContent(text string) Content {
	return Content{kind: contentText, text: text}
}

// MapContent returns a mapping-bodied Content with keys in the order
// given.
func MapContent(keys []string, values map[string]any) Content {
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, entry{key: k, value: values[k]})
	}

	return Content{kind: contentMap, entries: entries}
}

// IsZero reports whether no body has been loaded.
func (c Content) IsZero() bool { return c.kind == contentNone }

// IsMap reports whether the body is a mapping.
func (c Content) IsMap() bool { return c.kind == contentMap }

// Text returns the string body, or "" for mapping and empty bodies.
func (c Content) Text() string { return c.text }

// Keys returns the mapping keys in document order.
func (c Content) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.key
	}

	return keys
}

// Value returns the raw value for a mapping key.
func (c Content) Value(key string) (any, bool) {
	for _, e := range c.entries {
		if e.key == key {
			return e.value, true
		}
	}

	return nil, false
}

// Map returns the mapping body with every value stringified.
func (c Content) Map() map[string]string {
	m := make(map[string]string, len(c.entries))
	for _, e := range c.entries {
		m[e.key] = stringify(e.value)
	}

	return m
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler. A scalar body
// becomes a string, a mapping body keeps its key order; anything else
// is an invalid document.
func (c *Content) UnmarshalYAML(unmarshal func(any) error) error {
	var text string
	if err := unmarshal(&text); err == nil {
		*c = TextContent(text)

		return nil
	}

	var mapping yaml.MapSlice
	if err := unmarshal(&mapping); err == nil {
		entries := make([]entry, len(mapping))
		for i, item := range mapping {
			entries[i] = entry{key: stringify(item.Key), value: item.Value}
		}

		*c = Content{kind: contentMap, entries: entries}

		return nil
	}

	return ErrInvalid.Wrap(fmt.Errorf("template body must be a string or mapping"))
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (c Content) MarshalYAML() (any, error) {
	switch c.kind {
	case contentText:
		return c.text, nil

	case contentMap:
		mapping := make(yaml.MapSlice, len(c.entries))
		for i, e := range c.entries {
			mapping[i] = yaml.MapItem{Key: e.key, Value: e.value}
		}

		return mapping, nil

	default:
		return nil, ErrInvalid
	}
}

// stringify renders a resolved value as the text substituted for a
// marker. Scalars format with strconv so output is stable across
// platforms; containers fall back to the fmt verb.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
