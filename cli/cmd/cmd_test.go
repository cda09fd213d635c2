package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tagweave/tagweave/template"
)

const testDocument = `version: "1.0"
tags:
  - user: John Doe
  - shout: "tagscript: (s) => upper(s)"
  - answer: "tagscript: 6 * 7"
template: "name: <<user>>, answer: <<answer>>"
`

func writeDocument(t *testing.T, name, data string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRender_DocumentBody(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)

	var buf bytes.Buffer

	cmd := &Render{Path: path, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := "name: John Doe, answer: 42\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRender_ContentFile(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)
	content := writeDocument(t, "content.txt", "hi <<shout(user)>>")

	var buf bytes.Buffer

	cmd := &Render{Path: path, Content: []string{content}, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := "hi JOHN DOE"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRender_Globals(t *testing.T) {
	const doc = `version: "1.0"
tags:
  - region: "tagscript: zone"
template: "region: <<region>>"
`

	path := writeDocument(t, "doc.yaml", doc)

	var buf bytes.Buffer

	cmd := &Render{
		Path:   path,
		Global: map[string]string{"zone": "us-east"},
		stdout: &buf,
	}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := "region: us-east\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRender_TagOverride(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)

	var buf bytes.Buffer

	cmd := &Render{
		Path:   path,
		Tag:    map[string]string{"user": "Jane Roe"},
		stdout: &buf,
	}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := "name: Jane Roe, answer: 42\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestRender_OutputFile(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)
	output := filepath.Join(t.TempDir(), "out.txt")

	cmd := &Render{Path: path, Output: output}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if want := "name: John Doe, answer: 42\n"; string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestRender_BadVersion(t *testing.T) {
	path := writeDocument(t, "doc.yaml", `version: "9.9"
template: x
`)

	cmd := &Render{Path: path, stdout: &bytes.Buffer{}}
	if err := cmd.Run(context.Background()); !errors.Is(err, template.ErrVersion) {
		t.Fatalf("Run error = %v, want ErrVersion", err)
	}
}

func TestTags_Names(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)

	var buf bytes.Buffer

	cmd := &Tags{Path: path, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := "user\nshout\nanswer\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTags_ScriptsOnly(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)

	var buf bytes.Buffer

	cmd := &Tags{Path: path, Scripts: true, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if want := "shout\nanswer\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTags_Raw(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)

	var buf bytes.Buffer

	cmd := &Tags{Path: path, Raw: true, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(buf.String(), "shout\ttagscript: (s) => upper(s)") {
		t.Errorf("output missing raw value:\n%s", buf.String())
	}
}

func TestCheck_Valid(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)

	var buf bytes.Buffer

	cmd := &Check{Path: path, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(buf.String(), "ok (3 tags, 2 scripts)") {
		t.Errorf("output = %q, want ok summary", buf.String())
	}
}

func TestCheck_MissingTemplate(t *testing.T) {
	path := writeDocument(t, "doc.yaml", `version: "1.0"
tags:
  - user: John
`)

	cmd := &Check{Path: path, stdout: &bytes.Buffer{}}
	if err := cmd.Run(context.Background()); !errors.Is(err, template.ErrInvalid) {
		t.Fatalf("Run error = %v, want ErrInvalid", err)
	}
}

func TestFmt_CanonicalOrder(t *testing.T) {
	// Keys deliberately out of canonical order.
	path := writeDocument(t, "doc.yaml", `template: "x: <<x>>"
tags:
  - x: "1"
version: "1.0"
`)

	var buf bytes.Buffer

	cmd := &Fmt{Path: path, stdout: &buf}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()

	version := strings.Index(out, "version:")
	tags := strings.Index(out, "tags:")
	tpl := strings.Index(out, "template:")

	if version < 0 || tags < 0 || tpl < 0 || version > tags || tags > tpl {
		t.Errorf("keys not in canonical order:\n%s", out)
	}
}

func TestFmt_Write(t *testing.T) {
	path := writeDocument(t, "doc.yaml", `template: hello
version: "1.0"
`)

	cmd := &Fmt{Path: path, Write: true}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(data), "version:") {
		t.Errorf("rewritten file does not lead with version:\n%s", data)
	}

	// The rewritten file must still load.
	if _, err := template.LoadDocument(path); err != nil {
		t.Fatalf("LoadDocument after fmt: %v", err)
	}
}

func TestFmt_OutputFile(t *testing.T) {
	path := writeDocument(t, "doc.yaml", testDocument)
	output := filepath.Join(t.TempDir(), "formatted.yaml")

	cmd := &Fmt{Path: path, Output: output}
	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := template.LoadDocument(output); err != nil {
		t.Fatalf("LoadDocument of formatted output: %v", err)
	}
}

func TestContentSources_Deduplicates(t *testing.T) {
	path := writeDocument(t, "content.txt", "hello")

	src, ok := contentSources([]string{path, path})
	if !ok {
		t.Fatal("contentSources returned no reader")
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		t.Fatal(err)
	}

	if want := "hello"; buf.String() != want {
		t.Errorf("content = %q, want %q read once", buf.String(), want)
	}
}

func TestContentSources_Empty(t *testing.T) {
	if _, ok := contentSources(nil); ok {
		t.Error("contentSources(nil) returned a reader")
	}
}
