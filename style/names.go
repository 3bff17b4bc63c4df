package style

import (
	"strings"
	"unicode"
)

// CamelCase converts CSS property name to the form used by element style
// objects: "font-size" -> "fontSize", "-webkit-box-shadow" -> "WebkitBoxShadow".
// Custom properties ("--x") and names already in camel case are returned
// unchanged.
func CamelCase(name string) string {
	if strings.HasPrefix(name, "--") || !strings.Contains(name, "-") {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name))
	upper := false
	for _, r := range name {
		if r == '-' {
			// leading dash is a vendor prefix and produces capital letter too
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// KebabCase is the reverse of CamelCase: "fontSize" -> "font-size",
// "WebkitBoxShadow" -> "-webkit-box-shadow".
func KebabCase(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			// capital first letter is a vendor prefix, dash is still needed
			sb.WriteByte('-')
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ValidPropertyName reports whether name could be used as a key of the
// element style object.
func ValidPropertyName(name string) bool {
	if strings.HasPrefix(name, "--") {
		return len(name) > 2 && validIdent(name[2:], true)
	}
	return validIdent(name, false)
}

func validIdent(s string, dashes bool) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
		case i > 0 && r < unicode.MaxASCII && unicode.IsDigit(r):
		case dashes && (r == '-' || r == '_'):
		default:
			return false
		}
	}
	return true
}

// validKey checks style sheet key: element names like "h1" or class-like
// names like "block" or "task-list".
func validKey(s string) bool {
	return validIdent(s, true) && !strings.HasPrefix(s, "-")
}

// IsIdentifier reports whether s could be used in JS member access without
// quoting.
func IsIdentifier(s string) bool {
	return validIdent(s, false)
}
