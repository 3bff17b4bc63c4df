package render

import (
	"unicode"

	"github.com/yuin/goldmark/util"

	"mdjs/common"
)

// keepSoftLineBreak reports whether soft line break between last rune of one
// text segment and first rune of the next one should be kept.
func keepSoftLineBreak(mode common.EastAsianLineBreaks, last, first rune) bool {
	switch mode {
	case common.EastAsianLineBreaksSimple:
		return !(util.IsEastAsianWideRune(last) && util.IsEastAsianWideRune(first))
	case common.EastAsianLineBreaksCss3draft:
		return css3DraftSoftLineBreak(last, first)
	}
	return true
}

// css3DraftSoftLineBreak follows CSS Text Level 3 segment break
// transformation rules (2020 working draft, csswg-drafts#5086).
func css3DraftSoftLineBreak(last, first rune) bool {
	// zero width space swallows the break
	if last == '\u200B' || first == '\u200B' {
		return false
	}

	// wide on both sides, unless one of them is Hangul
	if wideOrHalf(last) && wideOrHalf(first) {
		return unicode.Is(unicode.Hangul, last) || unicode.Is(unicode.Hangul, first)
	}

	if discardsSpace(last) || discardsSpace(first) {
		return false
	}
	return true
}

func wideOrHalf(r rune) bool {
	switch util.EastAsianWidth(r) {
	case "F", "W", "H":
		return true
	}
	return false
}

func discardsSpace(r rune) bool {
	return util.IsSpaceDiscardingUnicodeRune(r) || unicode.IsPunct(r) || r == '\u3000'
}
