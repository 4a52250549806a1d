package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/fragment"
)

var upcomingCountPattern = regexp.MustCompile(`(?i)(\d+)\s+upcoming`)

// navIcons maps an icon class fragment to its navigation mode. The bike and
// walk icons are checked before car because their class names are more
// specific.
var navIcons = []struct {
	class string
	mode  event.NavMode
}{
	{"map-bike", event.NavBiking},
	{"map-walk", event.NavWalking},
	{"train", event.NavTransit},
	{"car", event.NavDriving},
}

// ParseDetails extracts every section of an event detail page. Sections are
// read independently; an absent section leaves its sub-record nil.
func ParseDetails(doc *goquery.Document, base string) *event.Details {
	return &event.Details{
		Description: parseDescription(doc),
		Venue:       parseVenue(doc, base),
		Terms:       parseTerms(doc),
		Artist:      parseArtist(doc, base),
		Organizer:   parseOrganizer(doc, base),
		Tickets:     parseTickets(doc),
	}
}

func parseDescription(doc *goquery.Document) string {
	paras := fragment.ExtractList(doc.Selection, fragment.Field{
		Selector:  selDescriptionPreferred,
		Fallbacks: []string{selDescription},
		Mode:      fragment.ModeList,
	})
	if len(paras) == 0 {
		return event.NotAvailable
	}
	return strings.Join(paras, "\n")
}

func parseVenue(doc *goquery.Document, base string) *event.VenueDetail {
	sec := fragment.First(doc, selVenueSection)
	if sec.Length() == 0 {
		return nil
	}

	v := event.NewVenueDetail()
	v.Name = fragment.Extract(sec, fragment.Text("h3", event.NotAvailable, "h4", "strong", "b"))
	v.FullAddress = fragment.Extract(sec, fragment.Text(selVenueAddress, event.NotAvailable))

	addr := fragment.ParseAddress(v.FullAddress, event.NotAvailable)
	v.Street, v.City, v.State, v.Zip = addr.Street, addr.City, addr.State, addr.Zip

	sec.Find(selVenueNav).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		icons := a.Find("*").AddSelection(a)
		for _, ni := range navIcons {
			if fragment.HasClass(icons, ni.class) {
				v.NavigationLinks[ni.mode] = fragment.ResolveLink(base, href)
				return
			}
		}
	})

	v.MapImage = fragment.Extract(sec, fragment.Field{
		Selector:  ".map img",
		Fallbacks: []string{"figure img", "img"},
		Mode:      fragment.ModeAttr,
		Attr:      "src",
		Default:   event.NotAvailable,
	})
	return v
}

func parseTerms(doc *goquery.Document) *event.Terms {
	sec := fragment.First(doc, selTermsSection)
	if sec.Length() == 0 {
		return nil
	}

	t := event.NewTerms()
	t.Title = fragment.Extract(sec, fragment.Text("h2", event.NotAvailable, "h3", selSubtitle))

	if article := sec.Find("article").First(); article.Length() > 0 {
		t.LocationID = fragment.Extract(article, fragment.Attr("", "data-locationid", event.NotAvailable))
		if t.LocationID == event.NotAvailable {
			t.LocationID = fragment.Extract(article, fragment.Attr("", "id", event.NotAvailable))
		}
	}

	sec.Find(selTermsItems).Each(func(_ int, p *goquery.Selection) {
		if hiddenTerm(p) {
			return
		}
		if text := fragment.Normalize(p.Text()); text != "" {
			t.Terms = append(t.Terms, text)
		}
	})
	return t
}

// hiddenTerm reports whether a terms paragraph is hidden or fully struck
// through. Both cases are retracted conditions still present in the markup.
func hiddenTerm(p *goquery.Selection) bool {
	if p.HasClass("hide") {
		return true
	}
	if style, ok := p.Attr("style"); ok && strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none") {
		return true
	}
	if p.ParentsFiltered("s, strike, del").Length() > 0 {
		return true
	}
	struck := p.Find("s, strike, del")
	if struck.Length() == 0 {
		return false
	}
	return fragment.Normalize(struck.Text()) == fragment.Normalize(p.Text())
}

func parseArtist(doc *goquery.Document, base string) *event.Artist {
	wrp := fragment.First(doc, selArtist)
	if wrp.Length() == 0 {
		return nil
	}

	a := event.NewArtist()
	a.Name = fragment.Extract(wrp, fragment.Text("h3", event.NotAvailable, "h4", ".title", "b"))
	a.Image = fragment.Extract(wrp, fragment.Attr("img", "src", event.NotAvailable))
	if paras := fragment.ExtractList(wrp, fragment.Field{Selector: "p", Mode: fragment.ModeList}); len(paras) > 0 {
		a.Description = strings.Join(paras, "\n")
	}
	a.Link = fragment.Link(wrp, "a", base, event.NotAvailable)

	scope := wrp.Closest(selArtistArticle)
	if scope.Length() == 0 {
		scope = wrp
	}
	fragment.Locate(scope, selTourStops, selTourStopsAlt).Each(func(_ int, li *goquery.Selection) {
		stop := event.NewTourStop()
		stop.Day = fragment.Extract(li, fragment.Text(".day", event.NotAvailable))
		stop.Month = fragment.Extract(li, fragment.Text(".month", event.NotAvailable))
		stop.City = fragment.Extract(li, fragment.Text(".city", event.NotAvailable))
		stop.Time = fragment.Extract(li, fragment.Text(".time", event.NotAvailable))
		stop.Venue = fragment.Extract(li, fragment.Text(".venue b", event.NotAvailable, ".venue-name", ".venue"))
		stop.Address = fragment.Extract(li, fragment.Text(".venue small", event.NotAvailable, ".address"))
		a.TourStops = append(a.TourStops, stop)
	})
	return a
}

func parseOrganizer(doc *goquery.Document, base string) *event.Organizer {
	sec := fragment.FirstMatch(
		fragment.Selector(doc, selOrganizerSection),
		sectionByHeading(doc, selSubtitle, organizerHeading),
		sectionByHeading(doc, "h2, h3", organizerHeading),
	)
	if sec == nil {
		return nil
	}

	o := event.NewOrganizer()
	o.Name = fragment.Extract(sec, fragment.Text(".orgname", event.NotAvailable, ".org-name", "h4", "h5", "strong"))
	o.Logo = fragment.Extract(sec, fragment.Attr("img", "src", event.NotAvailable))
	o.EventsLink = fragment.Extract(sec, fragment.Attr("a[href*='organizer']", "href", event.NotAvailable))
	if o.EventsLink != event.NotAvailable {
		o.EventsLink = fragment.ResolveLink(base, o.EventsLink)
	}
	if m := upcomingCountPattern.FindStringSubmatch(fragment.Normalize(sec.Text())); m != nil {
		o.UpcomingCount = m[1]
	}
	sec.Find("a, button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), "follow") || fragment.HasClass(s, "follow") {
			o.FollowAvailable = true
		}
		return !o.FollowAvailable
	})
	sec.Find(selCard).Each(func(_ int, card *goquery.Selection) {
		o.Events = append(o.Events, AssembleCard(card, card.Closest(selArticle), base))
	})
	return o
}

// sectionByHeading finds the first section whose heading text contains
// phrase, ignoring case.
func sectionByHeading(doc *goquery.Document, heading, phrase string) fragment.Strategy {
	return func() *goquery.Selection {
		var found *goquery.Selection
		doc.Find("section").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := fragment.Extract(s, fragment.Text(heading, ""))
			if strings.Contains(strings.ToLower(text), phrase) {
				found = s
				return false
			}
			return true
		})
		return found
	}
}

func parseTickets(doc *goquery.Document) *event.TicketInfo {
	sec := fragment.First(doc, selTicketSection)
	if sec.Length() == 0 {
		return nil
	}

	info := event.NewTicketInfo()
	sec.Find(selTicketTier).Each(func(_ int, t *goquery.Selection) {
		tier := event.NewTicketTier()
		tier.Category = fragment.Extract(t, fragment.Text(".tkt-category", event.NotAvailable, ".tkt-name", "h3", "h4"))
		tier.Description = fragment.Extract(t, fragment.Text(".tkt-desc", event.NotAvailable, "p"))
		tier.Price = fragment.Extract(t, fragment.Text(".price b", event.NotAvailable, ".tkt-price", ".price"))
		tier.Status = fragment.Extract(t, fragment.Text(".status", event.NotAvailable, ".batch", ".soldout"))
		tier.Closing = fragment.Extract(t, fragment.Text(".closing", event.NotAvailable, ".closedate", ".tkt-close"))
		tier.AlmostSoldOut = strings.Contains(strings.ToLower(fragment.Normalize(t.Text())), "almost sold out") ||
			fragment.HasClass(t.Find("*").AddSelection(t), "almost")
		info.Tiers = append(info.Tiers, tier)
	})

	btn := fragment.Locate(sec, ".actionarea a", ".actionarea button", "button", "a.btn").First()
	if btn.Length() > 0 {
		info.Action.Label = fragment.Extract(btn, fragment.Text("", event.NotAvailable))
		info.Action.OnClick = fragment.Extract(btn, fragment.Attr("", "onclick", event.NotAvailable))
	}
	return info
}
