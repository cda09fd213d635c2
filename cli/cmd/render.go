package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/tagweave/tagweave/template"
)

// Render resolves a template document and prints the result.
type Render struct {
	Path    string            `arg:"" help:"Template document file" name:"path" type:"existingfile"`
	Content []string          `help:"Content file(s) or '-' for stdin to resolve in place of the document body" short:"c"`
	Output  string            `help:"Write the result to a file instead of stdout" short:"o" type:"path"`
	Tag     map[string]string `help:"Override or add tags (name=value)" short:"t"`
	Global  map[string]string `help:"Additional global bindings for script tags (name=value)" short:"g"`

	stdout io.Writer
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	tpl, err := template.Load(r.Path)
	if err != nil {
		return err
	}

	for name, raw := range r.Tag {
		tpl.CreateTag(name, raw)
	}

	if len(r.Global) > 0 {
		globals := make(map[string]any, len(r.Global))
		for name, value := range r.Global {
			globals[name] = value
		}

		tpl.RegisterGlobals(globals)
	}

	out, done, err := r.output()
	if err != nil {
		return err
	}
	defer done()

	// Explicit content sources replace the document body.
	if src, ok := contentSources(r.Content); ok {
		data, err := io.ReadAll(src)
		if err != nil {
			return ErrReadContent.Wrap(err)
		}

		resolved, err := tpl.Replace(string(data))
		if err != nil {
			return err
		}

		if _, err := io.WriteString(out, resolved); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	content, err := tpl.Render()
	if err != nil {
		return err
	}

	if content.IsMap() {
		data, err := yaml.Marshal(content)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		if _, err := out.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if _, err := fmt.Fprintln(out, content.Text()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// output returns the destination writer and a cleanup function.
func (r *Render) output() (io.Writer, func(), error) {
	if r.Output == "" {
		if r.stdout != nil {
			return r.stdout, func() {}, nil
		}

		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(r.Output)
	if err != nil {
		return nil, nil, ErrWriteOutput.Wrap(err).
			With(slog.String("path", r.Output))
	}

	return file, func() { file.Close() }, nil
}
