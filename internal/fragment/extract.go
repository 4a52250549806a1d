package fragment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mode selects how a field's value is read from its element.
type Mode int

const (
	// ModeText reads the normalized text content.
	ModeText Mode = iota
	// ModeIconText reads the text with a nested <i> icon's own text removed.
	ModeIconText
	// ModeAttr reads an attribute value.
	ModeAttr
	// ModeList reads the normalized text of every matched element.
	ModeList
)

// Field describes one value inside a fragment. An empty Selector addresses
// the fragment itself.
type Field struct {
	Selector  string
	Fallbacks []string
	Mode      Mode
	Attr      string
	Default   string
}

// Text is shorthand for a ModeText field.
func Text(selector, def string, fallbacks ...string) Field {
	return Field{Selector: selector, Fallbacks: fallbacks, Mode: ModeText, Default: def}
}

// Attr is shorthand for a ModeAttr field.
func Attr(selector, attr, def string) Field {
	return Field{Selector: selector, Mode: ModeAttr, Attr: attr, Default: def}
}

// Extract returns the field's value from sel. Scalar modes return the default
// when the element, its text or its attribute is absent. ModeList results are
// joined with a newline; use ExtractList for a slice.
func Extract(sel *goquery.Selection, f Field) string {
	if f.Mode == ModeList {
		return strings.Join(ExtractList(sel, f), "\n")
	}

	el := f.target(sel).First()
	if el.Length() == 0 {
		return f.Default
	}

	var value string
	switch f.Mode {
	case ModeAttr:
		v, ok := el.Attr(f.Attr)
		if !ok {
			return f.Default
		}
		value = strings.TrimSpace(v)
	case ModeIconText:
		value = StripIcon(el)
	default:
		value = Normalize(el.Text())
	}

	if value == "" {
		return f.Default
	}
	return value
}

// ExtractList returns the normalized text of every element the field
// matches, skipping empty ones. It never returns nil.
func ExtractList(sel *goquery.Selection, f Field) []string {
	out := []string{}
	f.target(sel).Each(func(_ int, s *goquery.Selection) {
		if text := Normalize(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func (f Field) target(sel *goquery.Selection) *goquery.Selection {
	if f.Selector == "" {
		return sel
	}
	return Locate(sel, f.Selector, f.Fallbacks...)
}

// Normalize trims s and collapses every run of whitespace, newlines
// included, into a single space. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripIcon returns el's normalized text with every occurrence of the text of
// its first nested <i> element removed. Dates render as icon glyph then text, and the glyph's
// accessible text must not leak into the value.
func StripIcon(el *goquery.Selection) string {
	text := el.Text()
	if icon := el.Find("i").First(); icon.Length() > 0 {
		if glyph := strings.TrimSpace(icon.Text()); glyph != "" {
			text = strings.ReplaceAll(text, glyph, "")
		}
	}
	return Normalize(text)
}

// ResolveLink joins path-absolute hrefs ("/...") onto base. Anything else,
// including fully-qualified external links, is returned unchanged.
func ResolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return strings.TrimRight(base, "/") + href
	}
	return href
}

// Link reads an href attribute and resolves it against base.
func Link(sel *goquery.Selection, selector, base, def string) string {
	href := Extract(sel, Attr(selector, "href", ""))
	if href == "" {
		return def
	}
	return ResolveLink(base, href)
}

// HasClass reports whether any element in sel carries a class attribute
// containing substr.
func HasClass(sel *goquery.Selection, substr string) bool {
	found := false
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if class, ok := s.Attr("class"); ok && strings.Contains(class, substr) {
			found = true
		}
		return !found
	})
	return found
}
