// Package common keeps enums shared between configuration and conversion
// code so neither has to import the other.
package common

//go:generate go tool go-enum --marshal --names --nocase

// Specification of requested output type.
// ENUM(js, json, xml)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtJs:
		return ".js"
	case OutputFmtJson:
		return ".json"
	case OutputFmtXml:
		return ".xml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Handling of soft line breaks between east asian wide characters.
// ENUM(none, simple, css3draft)
type EastAsianLineBreaks int
