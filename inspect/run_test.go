package inspect

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"mdjs/config"
	"mdjs/convert"
	"mdjs/state"
	"mdjs/style"
)

const sample = `---
title: Notes
tags: [x]
---
# Summary

Short **intro**.

# Notes {#top}

` + "```go\nfmt.Println()\n```\n"

func prepare(t *testing.T) *convert.Document {
	t.Helper()
	log := zaptest.NewLogger(t)
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	sheet, err := style.Preset(style.DefaultPreset)
	if err != nil {
		t.Fatalf("load style: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log, env.Cfg, env.Sheet = log, cfg, sheet

	doc, err := convert.PrepareDocument(ctx, strings.NewReader(sample), "notes.md", nil, log)
	if err != nil {
		t.Fatalf("PrepareDocument() error = %v", err)
	}
	return doc
}

func TestWrite_Metadata(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, prepare(t), Options{}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Document \"notes.md\"\n", "  title: \"Notes\"\n", "  Tags (1)\n    x\n", "  summary: "} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"AST", "tree:", "let mdStyle"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output must not contain %q without request:\n%s", unwanted, out)
		}
	}
}

func TestWrite_Sections(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, prepare(t), Options{AST: true, Tree: true, Style: true, Variable: "mdStyle"})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Summary AST\n  Document\n",
		"Body AST\n",
		"    Heading level=1\n      @id=\"top\"\n",
		"FencedCodeBlock language=\"go\"\n",
		"lines: \"fmt.Println()\\n\"",
		"Emphasis level=2\n",
		"Summary tree:\n",
		"Body tree:\n",
		"// style sheet \"default\"\nlet mdStyle = {\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestWrite_Preview(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, prepare(t), Options{Preview: true, Width: 40}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "intro") {
		t.Errorf("preview does not contain summary text:\n%s", out)
	}
	if strings.Contains(out, "Println") {
		t.Errorf("preview must show summary only:\n%s", out)
	}
}
