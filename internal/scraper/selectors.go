package scraper

// Listing page.
const (
	selSection         = "section.container.container-max"
	selSectionTitle    = ".title h2"
	selSectionTitleAlt = ".discover-titlewarp .title"
	selCard            = ".event-card"
	selArticle         = "article"
)

// Card fields.
const (
	selTitle      = ".event-info .title h3 a"
	selDate       = ".event-info .date"
	selVenue      = ".event-info .location b"
	selLocation   = ".event-info .location a"
	selPrice      = ".event-info .price b"
	selPriceAlt   = ".actionarea .price b"
	selStatus     = ".event-info .batch"
	selImage      = ".event-img figure a img"
	selLineup     = ".event-info .lineup a"
	selAction     = ".action a"
	selActionAlt  = ".actionarea .action a"
	attrFilterURL = "data-filter-url"
)

// Nearby metro-area section.
const (
	selNearbySection  = "section.global-eventwarp"
	selNearbyTitle    = ".discover-titlewarp .maintitle"
	selNearbyTitleAlt = ".discover-titlewarp h2.maintitle"
	selNearbyArticle  = "article.global-eventlist"
	selNearbyCardArea = "section.eventcardarea"
	selHeadings       = "h1, h2, h3, h4, .maintitle"
)

// Detail page.
const (
	selDescription          = "section.ACTION-sec-eventdetails p"
	selDescriptionPreferred = "section.ACTION-sec-eventdetails p.MsoNormal"
	selVenueSection         = "section.eventdetailrow.ACTION-sec-venuedetails"
	selVenueAddress         = "small"
	selVenueNav             = "div.iconav li a"
	selTermsSection         = "section.eventdetailrow.ACTION-sec-condition"
	selTermsItems           = "article p"
	selArtist               = "aside article.rhsbg div.atistdetailswrp"
	selArtistArticle        = "article.rhsbg"
	selTourStops            = "ul.tourlist li"
	selTourStopsAlt         = ".upcoming-events li"
	selTicketSection        = "section.tkt-wraper.ACTION-sec-ticket"
	selTicketTier           = "article.tkt-wrap"
	selSubtitle             = ".subtitle"
	selOrganizerSection     = "section.organizer, section.organizer-details"
)

const (
	// UncategorizedLabel keys cards from a section without a title.
	UncategorizedLabel = "Uncategorized"
	// DefaultNearbyTitle is used when the nearby section has no readable heading.
	DefaultNearbyTitle = "Upcoming Events"
	organizerHeading   = "organizer details"
)
