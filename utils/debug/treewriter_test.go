package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{
			name:   "no depth",
			depth:  0,
			format: "test",
			want:   "test\n",
		},
		{
			name:   "depth 2",
			depth:  2,
			format: "double indent",
			want:   "    double indent\n",
		},
		{
			name:   "with formatting",
			depth:  1,
			format: "%s = %d",
			args:   []any{"count", 5},
			want:   "  count = 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{
			name:  "empty value is skipped",
			label: "title",
			want:  "",
		},
		{
			name:  "plain value",
			depth: 1,
			label: "title",
			value: "hello world",
			want:  "  title: \"hello world\"\n",
		},
		{
			name:  "value with quotes",
			label: "quoted",
			value: `he said "hello"`,
			want:  "quoted: \"he said \\\"hello\\\"\"\n",
		},
		{
			name:  "value with newline",
			label: "multiline",
			value: "line1\nline2",
			want:  "multiline: \"line1\\nline2\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_List(t *testing.T) {
	tw := NewTreeWriter()
	tw.List(0, "empty", nil)
	tw.List(1, "tags", []string{"a", "b"})

	want := "  tags (2)\n    a\n    b\n"
	if got := tw.String(); got != want {
		t.Errorf("List() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Block(t *testing.T) {
	tw := NewTreeWriter()
	tw.Block(1, "tree", "div\n  p\n\n")
	tw.Block(0, "empty", "")

	want := "  tree:\n    div\n      p\nempty:\n"
	if got := tw.String(); got != want {
		t.Errorf("Block() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Document(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Document %q", "readme.md")
	tw.Field(1, "title", "My Document")
	tw.Field(1, "author", "")
	tw.Line(1, "body: %d elements", 3)

	want := "Document \"readme.md\"\n  title: \"My Document\"\n  body: 3 elements\n"
	if got := tw.String(); got != want {
		t.Errorf("report:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
