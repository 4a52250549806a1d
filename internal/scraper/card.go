package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/fragment"
)

const (
	performerMarker = "/artist"
	categoryMarker  = "category"
)

// BaseURL is the source site root used to resolve path-absolute links.
const BaseURL = "https://events.sulekha.com"

var (
	fieldTitle    = fragment.Text(selTitle, event.NotAvailable)
	fieldDate     = fragment.Field{Selector: selDate, Mode: fragment.ModeIconText, Default: event.NotAvailable}
	fieldVenue    = fragment.Text(selVenue, event.NotAvailable)
	fieldLocation = fragment.Text(selLocation, event.NotAvailable)
	fieldPrice    = fragment.Text(selPrice, "", selPriceAlt)
	fieldStatus   = fragment.Text(selStatus, event.NotAvailable)
	fieldImage    = fragment.Attr(selImage, "src", event.NotAvailable)
	fieldAction   = fragment.Text(selAction, event.DefaultAction, selActionAlt)

	// Nearby cards keep price and action in the action area.
	fieldNearbyPrice  = fragment.Text(selPriceAlt, "", selPrice)
	fieldNearbyAction = fragment.Text(selActionAlt, event.DefaultAction, selAction)
)

// AssembleCard builds a record from one event card. article is the card's
// enclosing <article>, which carries the event id and filter URL; it may be
// nil or empty, in which case those fields stay at their defaults.
func AssembleCard(card, article *goquery.Selection, base string) *event.Record {
	return assemble(card, article, base, fieldPrice, fieldAction)
}

func assembleNearbyCard(card, article *goquery.Selection, base string) *event.Record {
	return assemble(card, article, base, fieldNearbyPrice, fieldNearbyAction)
}

func assemble(card, article *goquery.Selection, base string, price, action fragment.Field) *event.Record {
	rec := event.NewRecord()

	rec.Title = fragment.Extract(card, fieldTitle)
	rec.Link = fragment.Link(card, selTitle, base, event.DefaultLink)
	rec.Date = fragment.Extract(card, fieldDate)
	rec.Venue = fragment.Extract(card, fieldVenue)
	rec.Location = fragment.Extract(card, fieldLocation)
	rec.Price = event.FormatPrice(fragment.Extract(card, price))
	rec.Status = fragment.Extract(card, fieldStatus)
	rec.Image = fragment.Extract(card, fieldImage)
	rec.ActionType = fragment.Extract(card, action)
	rec.Category, rec.Performers = splitLineup(card.Find(selLineup))

	if article != nil && article.Length() > 0 {
		rec.ID = articleID(article)
		rec.EventURL = fragment.Extract(article, fragment.Attr("", attrFilterURL, event.NotAvailable))
	}

	return rec
}

// articleID returns the trailing hyphen-separated token of the article id,
// e.g. "event-12345" gives "12345". Ids without a hyphen yield the sentinel.
func articleID(article *goquery.Selection) string {
	id, ok := article.First().Attr("id")
	if !ok {
		return event.NotAvailable
	}
	parts := strings.Split(strings.TrimSpace(id), "-")
	if len(parts) < 2 || parts[len(parts)-1] == "" {
		return event.NotAvailable
	}
	return parts[len(parts)-1]
}

// splitLineup separates the category anchor from performer anchors. Anchors
// pointing at an artist page are performers. Of the rest, an anchor linking
// to a category page claims the category first; otherwise the first unmarked
// anchor does. Everything left over is a performer.
func splitLineup(anchors *goquery.Selection) (string, []string) {
	category := event.NotAvailable
	performers := []string{}

	type anchor struct {
		text string
		href string
	}
	var unmarked []anchor
	categoryIdx := -1

	anchors.Each(func(_ int, a *goquery.Selection) {
		text := fragment.Normalize(a.Text())
		if text == "" {
			return
		}
		href, _ := a.Attr("href")
		if strings.Contains(href, performerMarker) {
			performers = append(performers, text)
			return
		}
		if categoryIdx < 0 && strings.Contains(strings.ToLower(href), categoryMarker) {
			categoryIdx = len(unmarked)
		}
		unmarked = append(unmarked, anchor{text: text, href: href})
	})

	if len(unmarked) == 0 {
		return category, performers
	}
	if categoryIdx < 0 {
		categoryIdx = 0
	}
	category = unmarked[categoryIdx].text
	for i, a := range unmarked {
		if i != categoryIdx {
			performers = append(performers, a.text)
		}
	}
	return category, performers
}
