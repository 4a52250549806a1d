package event

// NavMode names a way of travelling to a venue
type NavMode string

const (
	NavDriving NavMode = "driving"
	NavTransit NavMode = "transit"
	NavBiking  NavMode = "biking"
	NavWalking NavMode = "walking"
)

// NavModes lists the modes in display order.
var NavModes = []NavMode{NavDriving, NavTransit, NavBiking, NavWalking}

// Details bundles everything pulled from an event's detail page.
// Any sub-record may be nil.
type Details struct {
	Description string
	Venue       *VenueDetail
	Terms       *Terms
	Artist      *Artist
	Organizer   *Organizer
	Tickets     *TicketInfo
}

// ErrorDetails is the bundle substituted when a detail page cannot be fetched.
func ErrorDetails() *Details {
	return &Details{Description: DetailsErrorMarker}
}

// VenueDetail describes where the event takes place
type VenueDetail struct {
	Name            string             `json:"name"`
	FullAddress     string             `json:"full_address"`
	Street          string             `json:"street_address"`
	City            string             `json:"city"`
	State           string             `json:"state"`
	Zip             string             `json:"zip_code"`
	NavigationLinks map[NavMode]string `json:"map_links"`
	MapImage        string             `json:"map_image"`
}

func NewVenueDetail() *VenueDetail {
	links := make(map[NavMode]string, len(NavModes))
	for _, m := range NavModes {
		links[m] = NotAvailable
	}
	return &VenueDetail{
		Name:            NotAvailable,
		FullAddress:     NotAvailable,
		Street:          NotAvailable,
		City:            NotAvailable,
		State:           NotAvailable,
		Zip:             NotAvailable,
		NavigationLinks: links,
		MapImage:        NotAvailable,
	}
}

// Terms holds the terms and conditions block
type Terms struct {
	Title      string   `json:"title"`
	LocationID string   `json:"location_id"`
	Terms      []string `json:"terms"`
}

func NewTerms() *Terms {
	return &Terms{
		Title:      NotAvailable,
		LocationID: NotAvailable,
		Terms:      []string{},
	}
}

// Artist describes the headline performer from the detail sidebar
type Artist struct {
	Name        string     `json:"name"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	TourStops   []TourStop `json:"upcoming_events"`
}

func NewArtist() *Artist {
	return &Artist{
		Name:        NotAvailable,
		Image:       NotAvailable,
		Description: NotAvailable,
		Link:        NotAvailable,
		TourStops:   []TourStop{},
	}
}

// TourStop is one upcoming appearance of an artist
type TourStop struct {
	Day     string `json:"day"`
	Month   string `json:"month"`
	City    string `json:"city"`
	Time    string `json:"time"`
	Venue   string `json:"venue"`
	Address string `json:"address"`
}

func NewTourStop() TourStop {
	return TourStop{
		Day:     NotAvailable,
		Month:   NotAvailable,
		City:    NotAvailable,
		Time:    NotAvailable,
		Venue:   NotAvailable,
		Address: NotAvailable,
	}
}

// Organizer describes who runs the event
type Organizer struct {
	Name            string    `json:"name"`
	Logo            string    `json:"logo"`
	EventsLink      string    `json:"events_link"`
	UpcomingCount   string    `json:"upcoming_events_count"`
	FollowAvailable bool      `json:"follow_link_available"`
	Events          []*Record `json:"events"`
}

func NewOrganizer() *Organizer {
	return &Organizer{
		Name:          NotAvailable,
		Logo:          NotAvailable,
		EventsLink:    NotAvailable,
		UpcomingCount: NotAvailable,
		Events:        []*Record{},
	}
}

// TicketInfo lists ticket tiers and the purchase button
type TicketInfo struct {
	Tiers  []TicketTier `json:"ticket_types"`
	Action ActionButton `json:"action_button"`
}

func NewTicketInfo() *TicketInfo {
	return &TicketInfo{
		Tiers: []TicketTier{},
		Action: ActionButton{
			Label:   NotAvailable,
			OnClick: NotAvailable,
		},
	}
}

// TicketTier is one purchasable ticket category
type TicketTier struct {
	Category      string `json:"category"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	Status        string `json:"status"`
	AlmostSoldOut bool   `json:"almost_sold_out"`
	Closing       string `json:"closing"`
}

func NewTicketTier() TicketTier {
	return TicketTier{
		Category:    NotAvailable,
		Description: NotAvailable,
		Price:       NotAvailable,
		Status:      NotAvailable,
		Closing:     NotAvailable,
	}
}

// ActionButton is the ticket section's call to action. OnClick keeps the
// raw handler text.
type ActionButton struct {
	Label   string `json:"text"`
	OnClick string `json:"onclick"`
}
