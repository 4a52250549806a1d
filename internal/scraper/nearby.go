package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/fragment"
)

var nearbyPattern = regexp.MustCompile(`(?i)events\s+near\s+.+\s+metro\s+area`)

// maxAncestorHops bounds how far up from the heading the sibling and
// nested-div strategies climb.
const maxAncestorHops = 4

// nearbyMatch is the outcome of one strategy. A zero value means not found.
type nearbyMatch struct {
	strategy string
	title    string
	events   []*event.Record
}

func (m nearbyMatch) found() bool { return len(m.events) > 0 }

type nearbyStrategy struct {
	name string
	find func(l *listing) nearbyMatch
}

// listing is one listing page being parsed. grouped holds the cards the
// section loop already assembled; nearby strategies never take them again.
type listing struct {
	doc     *goquery.Document
	base    string
	grouped *goquery.Selection
}

func newListing(doc *goquery.Document, base string) *listing {
	return &listing{doc: doc, base: base, grouped: doc.Find(selCard).Slice(0, 0)}
}

func (l *listing) markGrouped(cards *goquery.Selection) {
	l.grouped = l.grouped.AddSelection(cards)
}

// nearbyStrategies are tried in order; the first that yields events wins.
var nearbyStrategies = []nearbyStrategy{
	{name: "selector", find: nearbyBySelector},
	{name: "sibling", find: nearbyBySibling},
	{name: "text-pattern", find: nearbyByNestedText},
}

// findNearby locates the "Events Near <City> Metro Area" block.
func findNearby(l *listing) (nearbyMatch, bool) {
	for _, s := range nearbyStrategies {
		m := s.find(l)
		if m.found() {
			m.strategy = s.name
			return m, true
		}
	}
	return nearbyMatch{}, false
}

func nearbyBySelector(l *listing) nearbyMatch {
	sec := fragment.First(l.doc, selNearbySection)
	if sec.Length() == 0 {
		return nearbyMatch{}
	}
	title := fragment.Extract(sec, fragment.Text(selNearbyTitle, DefaultNearbyTitle, selNearbyTitleAlt))
	return nearbyMatch{title: title, events: l.nearbyCards(sec)}
}

func nearbyBySibling(l *listing) nearbyMatch {
	heading := nearbyHeading(l.doc)
	if heading == nil {
		return nearbyMatch{}
	}
	title := headingTitle(heading)

	node := heading
	for hop := 0; hop < maxAncestorHops && node.Length() > 0 && !node.Is("body"); hop++ {
		var m nearbyMatch
		node.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			if recs := l.nearbyCards(sib); len(recs) > 0 {
				m = nearbyMatch{title: title, events: recs}
				return false
			}
			return true
		})
		if m.found() {
			return m
		}
		node = node.Parent()
	}
	return nearbyMatch{}
}

func nearbyByNestedText(l *listing) nearbyMatch {
	containers := l.doc.Find("div, section").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return nearbyPattern.MatchString(fragment.Normalize(s.Text()))
	})

	// Descendants follow their ancestors in document order, so walking
	// backwards visits the innermost matching container first.
	for i := containers.Length() - 1; i >= 0; i-- {
		c := containers.Eq(i)
		if recs := l.nearbyCards(c); len(recs) > 0 {
			title := nearbyPattern.FindString(fragment.Normalize(c.Text()))
			if h := c.Find(selHeadings).FilterFunction(matchesNearby).First(); h.Length() > 0 {
				title = headingTitle(h)
			}
			return nearbyMatch{title: title, events: recs}
		}
	}
	return nearbyMatch{}
}

func nearbyHeading(doc *goquery.Document) *goquery.Selection {
	h := doc.Find(selHeadings).FilterFunction(matchesNearby).First()
	if h.Length() == 0 {
		return nil
	}
	return h
}

func matchesNearby(_ int, s *goquery.Selection) bool {
	return nearbyPattern.MatchString(fragment.Normalize(s.Text()))
}

func headingTitle(h *goquery.Selection) string {
	if t := fragment.Normalize(h.Text()); t != "" {
		return t
	}
	return DefaultNearbyTitle
}

// nearbyCards reads the cards inside scope that no category section has
// claimed. Nearby listings wrap each card in
// article.global-eventlist > section.eventcardarea; plain .event-card markup
// is accepted as well.
func (l *listing) nearbyCards(scope *goquery.Selection) []*event.Record {
	var recs []*event.Record
	scope.Find(selNearbyArticle).Each(func(_ int, article *goquery.Selection) {
		if l.claimed(article) {
			return
		}
		area := fragment.Locate(article, selNearbyCardArea, selCard)
		if area.Length() == 0 {
			area = article
		}
		recs = append(recs, assembleNearbyCard(area.First(), article, l.base))
	})
	if len(recs) > 0 {
		return recs
	}

	scope.Find(selCard).NotSelection(l.grouped).Each(func(_ int, card *goquery.Selection) {
		recs = append(recs, assembleNearbyCard(card, card.Closest(selArticle), l.base))
	})
	return recs
}

// claimed reports whether sel is, or contains, an already grouped card.
func (l *listing) claimed(sel *goquery.Selection) bool {
	return sel.IsSelection(l.grouped) || sel.HasSelection(l.grouped).Length() > 0
}
