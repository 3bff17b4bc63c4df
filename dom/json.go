package dom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// MarshalJSON writes element descriptor:
//
//	{"type":"p","id":"...","key":"p","style":{...},"attrs":{...},"children":[...]}
//
// Text nodes are written as {"text":"..."}. Style and attributes keep their
// order.
func (e *Element) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes indented descriptor tree.
func WriteJSON(w io.Writer, root *Element) error {
	var raw, out bytes.Buffer
	if err := writeJSON(&raw, root); err != nil {
		return err
	}
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func writeJSON(buf *bytes.Buffer, e *Element) error {
	if e.IsText() {
		buf.WriteString(`{"text":`)
		writeString(buf, e.Text)
		buf.WriteByte('}')
		return nil
	}

	buf.WriteString(`{"type":`)
	writeString(buf, e.Type)
	if e.ID != "" {
		buf.WriteString(`,"id":`)
		writeString(buf, e.ID)
	}
	if e.StyleKey != "" {
		buf.WriteString(`,"key":`)
		writeString(buf, e.StyleKey)
	}
	if len(e.Style) > 0 {
		buf.WriteString(`,"style":{`)
		for i, p := range e.Style {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, p.Name)
			buf.WriteByte(':')
			writeString(buf, p.Value)
		}
		buf.WriteByte('}')
	}
	if len(e.Attrs) > 0 {
		buf.WriteString(`,"attrs":{`)
		for i, a := range e.Attrs {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, a.Name)
			buf.WriteByte(':')
			writeString(buf, a.Value)
		}
		buf.WriteByte('}')
	}
	if len(e.children) > 0 {
		buf.WriteString(`,"children":[`)
		for i, c := range e.children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	// marshaling a string never fails
	data, _ := json.Marshal(s)
	buf.Write(data)
}

// FromJSON restores tree written by MarshalJSON.
func FromJSON(data []byte) (*Element, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid json")
	}
	return fromResult(gjson.ParseBytes(data), "")
}

func fromResult(r gjson.Result, path string) (*Element, error) {
	if !r.IsObject() {
		return nil, fmt.Errorf("%s: descriptor must be an object", where(path))
	}
	typ := r.Get("type")
	if !typ.Exists() {
		text := r.Get("text")
		if !text.Exists() {
			return nil, fmt.Errorf("%s: descriptor has neither type nor text", where(path))
		}
		return NewText(text.String()), nil
	}
	if typ.String() == "" {
		return nil, fmt.Errorf("%s: empty element type", where(path))
	}

	e := NewElement(typ.String(), r.Get("id").String())
	e.StyleKey = r.Get("key").String()

	for _, field := range []string{"style", "attrs"} {
		if v := r.Get(field); v.Exists() && !v.IsObject() {
			return nil, fmt.Errorf("%s: %s must be an object", where(path), field)
		}
	}
	r.Get("style").ForEach(func(k, v gjson.Result) bool {
		e.Style.Set(k.String(), v.String())
		return true
	})
	r.Get("attrs").ForEach(func(k, v gjson.Result) bool {
		e.SetAttr(k.String(), v.String())
		return true
	})

	children := r.Get("children")
	if children.Exists() && !children.IsArray() {
		return nil, fmt.Errorf("%s: children must be an array", where(path))
	}
	var err error
	i := 0
	children.ForEach(func(_, v gjson.Result) bool {
		var c *Element
		if c, err = fromResult(v, fmt.Sprintf("%s/%s[%d]", path, e.Type, i)); err != nil {
			return false
		}
		err = e.AppendChild(c)
		i++
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func where(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
