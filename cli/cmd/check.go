package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tagweave/tagweave/script"
	"github.com/tagweave/tagweave/template"
)

// Check validates a template document without rendering it: the file
// must decode, carry the supported version and a body, and every
// script tag must parse.
type Check struct {
	Path string `arg:"" help:"Template document file" name:"path" type:"existingfile"`

	stdout io.Writer
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := template.LoadDocument(c.Path)
	if err != nil {
		return err
	}

	scripts := 0

	for _, tag := range doc.Tags {
		if !script.IsScript(tag.Raw) {
			continue
		}

		if _, ok := script.Parse(tag.Raw); !ok {
			return script.ErrScriptSyntax.With(
				slog.String("tag", tag.Name),
				slog.String("raw", tag.Raw),
			)
		}

		scripts++
	}

	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "%s: ok (%d tags, %d scripts)\n",
		c.Path, len(doc.Tags), scripts)

	return nil
}
