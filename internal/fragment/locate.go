package fragment

import "github.com/PuerkitoBio/goquery"

// Scope is anything selectors can be run against: a *goquery.Document or a
// previously located *goquery.Selection.
type Scope interface {
	Find(selector string) *goquery.Selection
}

// Locate runs primary against scope and, if it matches nothing, each fallback
// in order. The first selector yielding at least one match wins. The result is
// an empty selection when nothing matches.
func Locate(scope Scope, primary string, fallbacks ...string) *goquery.Selection {
	sel := scope.Find(primary)
	if sel.Length() > 0 {
		return sel
	}
	for _, fb := range fallbacks {
		if s := scope.Find(fb); s.Length() > 0 {
			return s
		}
	}
	return sel
}

// First is Locate narrowed to the first matched node.
func First(scope Scope, primary string, fallbacks ...string) *goquery.Selection {
	return Locate(scope, primary, fallbacks...).First()
}

// Strategy is one independent way of locating a fragment.
type Strategy func() *goquery.Selection

// Selector builds a Strategy from a plain selector.
func Selector(scope Scope, selector string) Strategy {
	return func() *goquery.Selection {
		return scope.Find(selector)
	}
}

// FirstMatch tries strategies in order and returns the first non-empty
// result. It returns nil when every strategy comes up empty.
func FirstMatch(strategies ...Strategy) *goquery.Selection {
	for _, s := range strategies {
		if s == nil {
			continue
		}
		if sel := s(); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
