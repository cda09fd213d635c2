package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tagweave/tagweave/script"
	"github.com/tagweave/tagweave/template"
)

// Tags lists the tags defined by a template document, in document order.
type Tags struct {
	Path    string `arg:"" help:"Template document file" name:"path" type:"existingfile"`
	Raw     bool   `help:"Include each tag's raw value"  short:"r"`
	Scripts bool   `help:"List only script tags"         short:"s"`

	stdout io.Writer
}

// Run executes the tags command.
func (t *Tags) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := template.LoadDocument(t.Path)
	if err != nil {
		return err
	}

	out := t.out()

	for _, tag := range doc.Tags {
		if t.Scripts && !script.IsScript(tag.Raw) {
			continue
		}

		if t.Raw {
			fmt.Fprintf(out, "%s\t%s\n", tag.Name, tag.Raw)
		} else {
			fmt.Fprintln(out, tag.Name)
		}
	}

	return nil
}

func (t *Tags) out() io.Writer {
	if t.stdout != nil {
		return t.stdout
	}

	return os.Stdout
}
