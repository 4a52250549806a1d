package fragment

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://events.sulekha.com"

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestLocate(t *testing.T) {
	doc := parse(t, `
		<div class="a"><p>one</p></div>
		<div class="b"><p>two</p><p>three</p></div>
	`)

	tests := []struct {
		name      string
		primary   string
		fallbacks []string
		want      int
	}{
		{"primary wins", ".a p", []string{".b p"}, 1},
		{"first non-empty fallback", ".missing", []string{".also-missing", ".b p", ".a p"}, 2},
		{"nothing matches", ".missing", []string{".nope"}, 0},
		{"no fallbacks", ".b p", nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Locate(doc, tt.primary, tt.fallbacks...)
			require.NotNil(t, sel)
			assert.Equal(t, tt.want, sel.Length())
		})
	}
}

func TestLocate_Scoped(t *testing.T) {
	doc := parse(t, `
		<section id="one"><div class="event-card">A</div></section>
		<section id="two"><div class="event-card">B</div><div class="event-card">C</div></section>
	`)

	scope := First(doc, "section#two")
	cards := Locate(scope, ".event-card")

	assert.Equal(t, 2, cards.Length())
	assert.Equal(t, "B", Normalize(cards.First().Text()))
}

func TestFirstMatch(t *testing.T) {
	doc := parse(t, `<ul><li>x</li></ul>`)

	calls := 0
	counting := func() *goquery.Selection {
		calls++
		return doc.Find("li")
	}

	got := FirstMatch(Selector(doc, ".none"), nil, counting, Selector(doc, "ul"))
	require.NotNil(t, got)
	assert.Equal(t, "li", goquery.NodeName(got))
	assert.Equal(t, 1, calls)

	assert.Nil(t, FirstMatch(Selector(doc, ".none"), Selector(doc, "table")))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Buy\n\t  Tickets  ", "Buy Tickets"},
		{"already normal", "already normal"},
		{"\n\n", ""},
		{"a  b   c", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalization must be idempotent")
		})
	}
}

func TestExtract_DefaultsWhenAbsent(t *testing.T) {
	doc := parse(t, `<div class="card"><h3><a>Title</a></h3><img class="blank" src=""></div>`)
	card := doc.Find(".card")

	assert.Equal(t, "N/A", Extract(card, Text(".price b", "N/A")))
	assert.Equal(t, "N/A", Extract(card, Attr("h3 a", "href", "N/A")), "missing attribute")
	assert.Equal(t, "N/A", Extract(card, Attr("img.blank", "src", "N/A")), "empty attribute")
	assert.Equal(t, "N/A", Extract(card, Attr("figure img", "src", "N/A")), "missing element")
	assert.Equal(t, "N/A", Extract(card, Field{Selector: ".date", Mode: ModeIconText, Default: "N/A"}))
	assert.Equal(t, []string{}, ExtractList(card, Field{Selector: ".lineup a"}))
}

func TestExtract_Modes(t *testing.T) {
	doc := parse(t, `
		<div class="card">
			<div class="price"><b> $15 </b></div>
			<div class="actionarea"><div class="price"><b>$20</b></div></div>
			<figure><a><img src="https://img.example/x.jpg"></a></figure>
			<div class="lineup"><a> Artist   One </a><a></a><a>Artist Two</a></div>
		</div>`)
	card := doc.Find(".card")

	assert.Equal(t, "$15", Extract(card, Text(".price b", "N/A")))
	assert.Equal(t, "$20", Extract(card, Text(".actionarea .price b", "N/A", ".price b")))
	assert.Equal(t, "$15", Extract(card, Text(".missing .price b", "N/A", ".price b")), "fallback selector")
	assert.Equal(t, "https://img.example/x.jpg", Extract(card, Attr("figure a img", "src", "N/A")))
	assert.Equal(t, []string{"Artist One", "Artist Two"}, ExtractList(card, Field{Selector: ".lineup a", Mode: ModeList}))
	assert.Equal(t, "Artist One\nArtist Two", Extract(card, Field{Selector: ".lineup a", Mode: ModeList}))
}

func TestStripIcon(t *testing.T) {
	doc := parse(t, `
		<div class="date"><i class="icon">📅</i> Jan 5, 2025</div>
		<div class="plain">  Feb 1, 2025 </div>
		<div class="svg"><i><svg></svg></i>
			Sat, Mar 8, 2025
		</div>
		<div class="repeat"><i>📅</i> Apr 4, 2025 📅 7 PM</div>`)

	assert.Equal(t, "Jan 5, 2025", StripIcon(doc.Find(".date")))
	assert.Equal(t, "Feb 1, 2025", StripIcon(doc.Find(".plain")))
	assert.Equal(t, "Sat, Mar 8, 2025", StripIcon(doc.Find(".svg")))
	assert.Equal(t, "Apr 4, 2025 7 PM", StripIcon(doc.Find(".repeat")))
	assert.Equal(t, "Jan 5, 2025", Extract(doc.Selection, Field{Selector: ".date", Mode: ModeIconText, Default: "N/A"}))
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/events/123", "https://events.sulekha.com/events/123"},
		{"https://other.example/x", "https://other.example/x"},
		{"relative/path", "relative/path"},
		{"//cdn.example/x.png", "//cdn.example/x.png"},
		{" /padded ", "https://events.sulekha.com/padded"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLink(base, tt.href))
			assert.Equal(t, tt.want, ResolveLink(base+"/", tt.href))
		})
	}
}

func TestLink(t *testing.T) {
	doc := parse(t, `<div><h3><a href="/diwali-mela">Diwali</a></h3><span><a>no href</a></span></div>`)
	sel := doc.Find("div")

	assert.Equal(t, "https://events.sulekha.com/diwali-mela", Link(sel, "h3 a", base, "#"))
	assert.Equal(t, "#", Link(sel, "span a", base, "#"))
}

func TestHasClass(t *testing.T) {
	doc := parse(t, `<i class="sprite-icon map-bike"></i><i class="car"></i>`)

	assert.True(t, HasClass(doc.Find("i"), "map-bike"))
	assert.True(t, HasClass(doc.Find("i"), "car"))
	assert.False(t, HasClass(doc.Find("i"), "train"))
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name string
		full string
		want Address
	}{
		{
			name: "street city state zip",
			full: "123 Main St, Springfield, IL 62701",
			want: Address{Street: "123 Main St", City: "Springfield", State: "IL", Zip: "62701"},
		},
		{
			name: "trailing country",
			full: "2100 Congress Ave, Suite 4, Austin, TX 78701, USA",
			want: Address{Street: "2100 Congress Ave", City: "Austin", State: "TX", Zip: "78701"},
		},
		{
			name: "no city segment falls back",
			full: "456 Oak Ave, TX 75001",
			want: Address{Street: "456 Oak Ave", City: "456 Oak Ave", State: "N/A", Zip: "N/A"},
		},
		{
			name: "state without zip",
			full: "1 Infinite Loop, Cupertino, CA",
			want: Address{Street: "1 Infinite Loop", City: "Cupertino", State: "CA", Zip: "N/A"},
		},
		{
			name: "single segment",
			full: "Online Event",
			want: Address{Street: "Online Event", City: "N/A", State: "N/A", Zip: "N/A"},
		},
		{
			name: "empty",
			full: "",
			want: Address{Street: "N/A", City: "N/A", State: "N/A", Zip: "N/A"},
		},
		{
			name: "empty segments ignored",
			full: "9 Elm St,, Dallas , TX  75201 ",
			want: Address{Street: "9 Elm St", City: "Dallas", State: "TX", Zip: "75201"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddress(tt.full, "N/A"))
		})
	}
}
