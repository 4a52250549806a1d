package event

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord()

	for name, got := range map[string]string{
		"id":          r.ID,
		"title":       r.Title,
		"date":        r.Date,
		"venue":       r.Venue,
		"location":    r.Location,
		"price":       r.Price,
		"status":      r.Status,
		"category":    r.Category,
		"image":       r.Image,
		"event_url":   r.EventURL,
		"description": r.Description,
	} {
		assert.Equal(t, NotAvailable, got, name)
	}

	assert.Equal(t, DefaultLink, r.Link)
	assert.Equal(t, DefaultAction, r.ActionType)
	assert.NotNil(t, r.Performers)
	assert.Empty(t, r.Performers)
	assert.Nil(t, r.VenueDetails)
	assert.False(t, r.HasLink())
}

func TestSubRecordDefaults(t *testing.T) {
	v := NewVenueDetail()
	assert.Equal(t, NotAvailable, v.Street)
	assert.Len(t, v.NavigationLinks, 4)
	for _, m := range NavModes {
		assert.Equal(t, NotAvailable, v.NavigationLinks[m])
	}

	tk := NewTicketInfo()
	assert.Equal(t, NotAvailable, tk.Action.Label)
	assert.NotNil(t, tk.Tiers)

	assert.Equal(t, NotAvailable, NewTourStop().Venue)
	assert.Equal(t, NotAvailable, NewTicketTier().Closing)
	assert.False(t, NewOrganizer().FollowAvailable)
	assert.Empty(t, NewTerms().Terms)
	assert.Equal(t, NotAvailable, NewArtist().Link)
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"$25", "Starts at $25"},
		{"  $10.00 ", "Starts at $10.00"},
		{"", NotAvailable},
		{NotAvailable, NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.raw))
		})
	}
}

func TestPerformersText(t *testing.T) {
	r := NewRecord()
	assert.Equal(t, NotAvailable, r.PerformersText())
	assert.Empty(t, ParsePerformers(r.PerformersText()))

	r.Performers = []string{"Arijit Singh", "Shreya Ghoshal"}
	text := r.PerformersText()
	assert.Equal(t, `["Arijit Singh","Shreya Ghoshal"]`, text)
	assert.Equal(t, r.Performers, ParsePerformers(text))

	assert.Equal(t, []string{"legacy text"}, ParsePerformers("legacy text"))
}

func TestFingerprint(t *testing.T) {
	a := NewRecord()
	a.Title = "Holi Festival"
	b := NewRecord()
	b.Title = "Holi Festival"

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 40)

	b.Venue = "Zilker Park"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestMerge_Additive(t *testing.T) {
	card := NewRecord()
	card.Title = "Sufi Night"
	card.Description = "From the card"
	card.Link = "https://events.sulekha.com/sufi-night"

	venue := NewVenueDetail()
	venue.Name = "Paramount Theatre"
	artist := NewArtist()
	artist.Name = "Nooran Sisters"

	merged := card.Merge(&Details{
		Description: "From the detail page",
		Venue:       venue,
		Artist:      artist,
	})

	assert.Equal(t, "From the card", merged.Description, "populated card field must win")
	assert.Equal(t, "Sufi Night", merged.Title)
	require.NotNil(t, merged.VenueDetails)
	assert.Equal(t, "Paramount Theatre", merged.VenueDetails.Name)
	require.NotNil(t, merged.Artist)
	assert.Nil(t, merged.Terms, "absent sub-record is not merged")
	assert.Nil(t, merged.Tickets)

	// the card itself is untouched
	assert.Nil(t, card.VenueDetails)
}

func TestMerge_FillsSentinelDescription(t *testing.T) {
	card := NewRecord()

	merged := card.Merge(ErrorDetails())
	assert.Equal(t, DetailsErrorMarker, merged.Description)
	assert.Nil(t, merged.VenueDetails)
	assert.Nil(t, merged.Organizer)

	assert.Same(t, card, card.Merge(nil))
}

func TestRecord_JSON(t *testing.T) {
	r := NewRecord()
	r.Title = "Garba Night"
	r.Performers = []string{"Falguni Pathak"}
	r.Tickets = NewTicketInfo()
	r.Tickets.Tiers = append(r.Tickets.Tiers, TicketTier{Category: "VIP", Price: "$50", AlmostSoldOut: true})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))

	if diff := cmp.Diff(r, &back); diff != "" {
		t.Errorf("record changed across JSON (-want +got):\n%s", diff)
	}
	assert.NotContains(t, string(data), "venue_details")
}
