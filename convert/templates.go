package convert

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"mdjs/common"
	"mdjs/config"
	"mdjs/content"
)

// Values are available to configuration templates.
type Values struct {
	Context    string // name of configuration field being expanded
	Title      string
	Author     string
	Date       string // 2006-01-02, empty when unknown
	Name       string
	Language   string
	Tags       []string
	Format     string
	SourceFile string // source base name without extension
	ID         string
}

func newValues(c *content.Content, field config.TemplateFieldName, format common.OutputFmt) Values {
	v := Values{
		Context:    string(field),
		Title:      c.Title(),
		Author:     c.Meta.Author,
		Name:       c.Name(),
		Language:   c.Meta.Lang,
		Tags:       c.Meta.Tags,
		Format:     format.String(),
		SourceFile: strings.TrimSuffix(filepath.Base(c.SrcName), filepath.Ext(c.SrcName)),
		ID:         c.ID.String(),
	}
	if !c.Meta.Date.IsZero() {
		v.Date = c.Meta.Date.String()
	}
	return v
}

// expandTemplate executes text template from configuration field with sprig
// functions over document values.
func expandTemplate(c *content.Content, field config.TemplateFieldName, text string, format common.OutputFmt) (string, error) {
	tmpl, err := template.New(string(field)).Funcs(sprig.FuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", field, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, newValues(c, field, format)); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", field, err)
	}
	return sb.String(), nil
}
