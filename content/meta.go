package content

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Meta is document metadata coming from front matter or sidecar file.
type Meta struct {
	Title  string   `yaml:"title"`
	Author string   `yaml:"author"`
	Date   Date     `yaml:"date"`
	Name   string   `yaml:"name"`
	Lang   string   `yaml:"lang"`
	Tags   []string `yaml:"tags"`
}

// ParseMeta reads YAML metadata, unknown fields are ignored.
func ParseMeta(data []byte) (*Meta, error) {
	var m Meta
	if len(strings.TrimSpace(string(data))) == 0 {
		return &m, nil
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unable to parse metadata: %w", err)
	}
	return &m, nil
}

// LoadMeta reads sidecar metadata file.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseMeta(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Merge fills empty fields of m from other.
func (m *Meta) Merge(other *Meta) {
	if other == nil {
		return
	}
	if m.Title == "" {
		m.Title = other.Title
	}
	if m.Author == "" {
		m.Author = other.Author
	}
	if m.Date.IsZero() {
		m.Date = other.Date
	}
	if m.Name == "" {
		m.Name = other.Name
	}
	if m.Lang == "" {
		m.Lang = other.Lang
	}
	if len(m.Tags) == 0 {
		m.Tags = other.Tags
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2 Jan 2006",
}

// Date accepts plain dates as well as timestamps.
type Date struct {
	time.Time
}

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (d *Date) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unsupported date format %q", s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}
