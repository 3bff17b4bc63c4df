package convert

import (
	"fmt"
	"io"
	"strings"

	"mdjs/common"
	"mdjs/config"
	"mdjs/dom"
	"mdjs/script"
	"mdjs/style"
)

// WriteTo generates output in the specified format and writes it to w. Site
// script is only used by JS output.
func (d *Document) WriteTo(w io.Writer, format common.OutputFmt, cfg *config.DocumentConfig, site []byte) error {
	switch format {
	case common.OutputFmtJs:
		sw := script.NewWriter(script.Options{
			StyleVar:      cfg.Style.Variable,
			SiteName:      d.SiteName,
			SiteID:        d.SiteID,
			Container:     cfg.Container,
			DebugComments: cfg.Render.DebugComments,
		})
		return sw.Write(w, script.Document{
			Sheet:   d.Sheet,
			Root:    d.Body,
			Summary: d.Summary,
			Site:    site,
		})
	case common.OutputFmtJson, common.OutputFmtXml:
		tree, err := d.Tree(cfg.Style.Variable)
		if err != nil {
			return err
		}
		if format == common.OutputFmtJson {
			return dom.WriteJSON(w, tree)
		}
		return dom.WriteXML(w, tree)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Tree returns standalone descriptor tree of the document:
//
//	site(id, data-name)
//	  style(data-variable) with sheet in CSS form
//	  summary container, when present
//	  body container
//
// Containers are moved under the new root, so Tree could be called once.
func (d *Document) Tree(variable string) (*dom.Element, error) {
	root := dom.NewElement("site", d.SiteID)
	root.SetAttr("data-name", d.SiteName)

	var css strings.Builder
	if err := style.WriteCSS(&css, d.Sheet); err != nil {
		return nil, fmt.Errorf("unable to write style sheet: %w", err)
	}
	sheet := dom.NewElement("style", "")
	sheet.SetAttr("data-variable", variable)
	if err := sheet.AppendText(css.String()); err != nil {
		return nil, err
	}
	if err := root.AppendChild(sheet); err != nil {
		return nil, err
	}

	for _, part := range []*dom.Element{d.Summary, d.Body} {
		if part == nil {
			continue
		}
		if err := root.AppendChild(part); err != nil {
			return nil, fmt.Errorf("unable to assemble document tree: %w", err)
		}
	}
	return root, nil
}
