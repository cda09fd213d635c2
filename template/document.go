package template

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"
)

// Version is the document format version this engine supports. A
// document's version key must match it exactly; there is no semantic
// version comparison.
const Version = "1.0"

// extension is the required document file extension.
const extension = ".yaml"

// Tag is a named placeholder value: raw is either a literal or a
// script expression marker.
type Tag struct {
	Name string
	Raw  string
}

// Document is the serialized form of a template: a format version, an
// optional ordered tag list, and the template body.
type Document struct {
	Version string
	Tags    []Tag
	Content Content
}

// LoadDocument reads and validates a template document from path. The
// path must name an existing .yaml file (ErrFile), the version key
// must equal Version (ErrVersion), and a template body must be
// present (ErrInvalid).
func LoadDocument(path string) (*Document, error) {
	if !strings.HasSuffix(path, extension) {
		return nil, ErrFile.With(
			slog.String("path", path),
			slog.String("reason", "not a "+extension+" file"),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrFile.Wrap(err).With(slog.String("path", path))
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, WrapErrorPath(err, path)
	}

	return doc, nil
}

// ParseDocument decodes and validates a template document from its
// serialized YAML form.
func ParseDocument(data []byte) (*Document, error) {
	var raw struct {
		Version  *string         `yaml:"version"`
		Tags     []yaml.MapSlice `yaml:"tags"`
		Template *Content        `yaml:"template"`
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		if invalidIn(err) {
			return nil, ErrInvalid.Wrap(err)
		}

		return nil, ErrFile.Wrap(err)
	}

	if raw.Version == nil || *raw.Version != Version {
		got := ""
		if raw.Version != nil {
			got = *raw.Version
		}

		return nil, ErrVersion.With(
			slog.String("got", got),
			slog.String("want", Version),
		)
	}

	if raw.Template == nil || raw.Template.IsZero() {
		return nil, ErrInvalid.With(
			slog.String("reason", "missing template key"),
		)
	}

	doc := &Document{
		Version: *raw.Version,
		Content: *raw.Template,
	}

	for _, def := range raw.Tags {
		for _, item := range def {
			doc.Tags = append(doc.Tags, Tag{
				Name: stringify(item.Key),
				Raw:  stringify(item.Value),
			})
		}
	}

	return doc, nil
}

// Marshal serializes the document with keys in canonical order:
// version, tags (omitted when empty), template.
func (d *Document) Marshal() ([]byte, error) {
	out := yaml.MapSlice{
		{Key: "version", Value: d.Version},
	}

	if len(d.Tags) > 0 {
		defs := make([]yaml.MapSlice, len(d.Tags))
		for i, tag := range d.Tags {
			defs[i] = yaml.MapSlice{{Key: tag.Name, Value: tag.Raw}}
		}

		out = append(out, yaml.MapItem{Key: "tags", Value: defs})
	}

	out = append(out, yaml.MapItem{Key: "template", Value: d.Content})

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, ErrFile.Wrap(err)
	}

	return data, nil
}

// Save atomically writes the document to path. The write goes through
// a temporary file and rename, so a failure on any exit path leaves
// the previous file intact.
func (d *Document) Save(path string) error {
	if !strings.HasSuffix(path, extension) {
		return ErrFile.With(
			slog.String("path", path),
			slog.String("reason", "not a "+extension+" file"),
		)
	}

	data, err := d.Marshal()
	if err != nil {
		return WrapErrorPath(err, path)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return ErrFile.Wrap(err).With(slog.String("path", path))
	}

	return nil
}
