package convert

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"mdjs/common"
)

const summaryMarkdown = `---
title: Guide
author: Jane
tags: [a, b]
---
# Summary

Short *intro*.

# Guide

Body text.
`

func TestLoadDocument(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	writeFile(t, path, summaryMarkdown)
	writeFile(t, filepath.Join(dir, "guide.meta"), "title: Ignored\nlang: en\n")

	doc, err := LoadDocument(ctx, path, testLogger(t))
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if doc.Meta.Title != "Guide" {
		t.Errorf("front matter must win over sidecar, title = %q", doc.Meta.Title)
	}
	if doc.Meta.Lang != "en" {
		t.Errorf("sidecar must fill missing fields, lang = %q", doc.Meta.Lang)
	}
	if doc.SiteName != "guide" || doc.SiteID != doc.ID.String() {
		t.Errorf("site = (%q, %q), want defaults from document", doc.SiteName, doc.SiteID)
	}
	if doc.Summary == nil || doc.Summary.ID != "mdDivSummary" {
		t.Fatalf("summary container = %+v", doc.Summary)
	}
	if doc.Body.ID != "mdDiv" || doc.Body.Type != "div" {
		t.Errorf("body container = %s#%s", doc.Body.Type, doc.Body.ID)
	}
	if v, ok := doc.Body.Style.Get("margin"); !ok || v != "10px" {
		t.Errorf("container style is not applied: %v", doc.Body.Style)
	}

	t.Run("not markdown", func(t *testing.T) {
		path := filepath.Join(dir, "notes.txt")
		writeFile(t, path, "text")
		if _, err := LoadDocument(ctx, path, testLogger(t)); err == nil {
			t.Error("LoadDocument() expected error for non markdown file")
		}
	})

	t.Run("broken sidecar", func(t *testing.T) {
		path := filepath.Join(dir, "other.md")
		writeFile(t, path, "# other\n")
		writeFile(t, filepath.Join(dir, "other.meta"), "date: not a date\n")
		if _, err := LoadDocument(ctx, path, testLogger(t)); err == nil {
			t.Error("LoadDocument() expected error for broken sidecar")
		}
	})
}

func TestPrepareDocument_SiteFromConfig(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.Site.Name = "portal"
	env.Cfg.Document.Site.ID = "p-1"

	doc, err := PrepareDocument(ctx, strings.NewReader("# x\n"), "x.md", nil, testLogger(t))
	if err != nil {
		t.Fatalf("PrepareDocument() error = %v", err)
	}
	if doc.SiteName != "portal" || doc.SiteID != "p-1" {
		t.Errorf("site = (%q, %q), want configured values", doc.SiteName, doc.SiteID)
	}
	if doc.Summary != nil {
		t.Error("summary must be nil without summary section")
	}
}

func TestDocument_String(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	doc, err := PrepareDocument(ctx, strings.NewReader(summaryMarkdown), "docs/guide.md", nil, testLogger(t))
	if err != nil {
		t.Fatalf("PrepareDocument() error = %v", err)
	}

	report := doc.String()
	for _, want := range []string{
		`Document "docs/guide.md" id=` + doc.ID.String(),
		`  title: "Guide"`,
		`  author: "Jane"`,
		"  Tags (2)\n    a\n    b\n",
		`Style sheet "default"`,
		"    Used keys (",
		"  Summary: ",
		"  Body: ",
		"    Tree:\n",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report does not contain %q:\n%s", want, report)
		}
	}

	var nilDoc *Document
	if nilDoc.String() != "<nil Document>" {
		t.Errorf("nil document String() = %q", nilDoc.String())
	}
}

func TestDocument_Tree(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	doc, err := PrepareDocument(ctx, strings.NewReader(summaryMarkdown), "guide.md", nil, testLogger(t))
	if err != nil {
		t.Fatalf("PrepareDocument() error = %v", err)
	}

	tree, err := doc.Tree("mdStyle")
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	if tree.Type != "site" || tree.ID != doc.SiteID {
		t.Errorf("root = %s#%s", tree.Type, tree.ID)
	}
	if v, _ := tree.Attr("data-name"); v != "guide" {
		t.Errorf("data-name = %q", v)
	}

	var types []string
	for _, c := range tree.Children() {
		types = append(types, c.Type+"#"+c.ID)
	}
	want := "style#,div#mdDivSummary,div#mdDiv"
	if got := strings.Join(types, ","); got != want {
		t.Errorf("children = %s, want %s", got, want)
	}
	css := tree.FirstChild().TextContent()
	if !strings.Contains(css, "h1") {
		t.Errorf("style element does not carry sheet: %q", css)
	}

	if _, err := doc.Tree("mdStyle"); err == nil {
		t.Error("second Tree() call must fail, containers already have parent")
	}
}

func TestDocument_WriteTo(t *testing.T) {
	ctx, env := setupTestEnv(t)
	cfg := &env.Cfg.Document

	tests := []struct {
		format common.OutputFmt
		want   string
	}{
		{common.OutputFmtJs, "site.summary = function () {\n"},
		{common.OutputFmtJson, "\"type\": \"site\""},
		{common.OutputFmtXml, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>"},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			doc, err := PrepareDocument(ctx, strings.NewReader(summaryMarkdown), "guide.md", nil, testLogger(t))
			if err != nil {
				t.Fatalf("PrepareDocument() error = %v", err)
			}
			var buf bytes.Buffer
			if err := doc.WriteTo(&buf, tt.format, cfg, nil); err != nil {
				t.Fatalf("WriteTo() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output does not contain %q:\n%s", tt.want, buf.String())
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		doc, err := PrepareDocument(ctx, strings.NewReader("# x\n"), "x.md", nil, testLogger(t))
		if err != nil {
			t.Fatalf("PrepareDocument() error = %v", err)
		}
		if err := doc.WriteTo(&bytes.Buffer{}, common.OutputFmt(42), cfg, nil); err == nil {
			t.Error("WriteTo() expected error for unsupported format")
		}
	})
}
