package cmd

import (
	"context"
	"io"
	"os"

	"github.com/tagweave/tagweave/template"
)

// Fmt rewrites a template document in canonical form: keys ordered as
// version, tags, template, with tag order preserved.
type Fmt struct {
	Path   string `arg:"" help:"Template document file"                  name:"path" type:"existingfile"`
	Write  bool   `help:"Rewrite the file in place"                      short:"w"`
	Output string `help:"Write the formatted document to another file"   short:"o"   type:"path"`

	stdout io.Writer
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	doc, err := template.LoadDocument(f.Path)
	if err != nil {
		return err
	}

	if f.Write {
		return doc.Save(f.Path)
	}

	if f.Output != "" {
		return doc.Save(f.Output)
	}

	data, err := doc.Marshal()
	if err != nil {
		return err
	}

	out := f.stdout
	if out == nil {
		out = os.Stdout
	}

	if _, err := out.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
