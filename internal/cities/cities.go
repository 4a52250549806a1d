// Package cities holds the static table mapping a city display name to the
// events.sulekha.com metro-area slug that lists its events.
package cities

import "strings"

// Entry pairs a city with its source-site slug.
type Entry struct {
	City string `json:"city"`
	Slug string `json:"slug"`
}

// table is scraped top to bottom when no city is requested. Several cities
// share a metro-area slug.
var table = []Entry{
	{"Austin", "austin-metro-area"},
	{"Dallas", "dallas-fortworth-area"},
	{"Houston", "houston-metro-area"},
	{"Los Angeles", "los-angeles-metro-area"},
	{"New York", "new-york-metro-area"},
	{"Philadelphia", "philadelphia-metro-area"},
	{"Miami", "miami-metro-area"},
	{"San Francisco", "bay-area"},
	{"Chicago", "chicago-metro-area"},
	{"Boston", "boston-metro-area"},
	{"Seattle", "seattle-metro-area"},
	{"Denver", "denver-metro-area"},
	{"Atlanta", "atlanta-metro-area"},
	{"Phoenix", "phoenix-metro-area"},
	{"San Diego", "san-diego-metro-area"},
	{"Las Vegas", "las-vegas-metro-area"},
	{"Portland", "portland-metro-area"},
	{"Detroit", "detroit-metro-area"},
	{"Baltimore", "baltimore-metro-area"},
	{"Charlotte", "research-triangle-area"},
	{"Minneapolis", "st-paul-metro-area"},
	{"Tampa", "tampa-metro-area"},
	{"St. Louis", "st-louis-metro-area"},
	{"New Orleans", "new-orleans-metro-area"},
	{"Salt Lake City", "ogden-metro-area"},
	{"Indianapolis", "indianapolis-metro-area"},
	{"Cleveland", "cleveland-metro-area"},
	{"Cincinnati", "cincinnati-metro-area"},
	{"Kansas City", "kansas-city-metro-area"},
	{"Omaha", "omaha-metro-area"},
	{"Oakland", "bay-area"},
	{"Orlando", "orlando-metro-area"},
	{"Sacramento", "sacramento-metro-area"},
	{"Nashville", "nashville-metro-area"},
	{"Milwaukee", "milwaukee-metro-area"},
	{"Raleigh", "research-triangle-area"},
	{"Memphis", "memphis-metro-area"},
	{"Virginia Beach", "richmond-metro-area"},
	{"Albuquerque", "albuquerque-metro-area"},
	{"Tulsa", "dallas-fortworth-area"},
	{"Fresno", "bay-area"},
	{"Columbus", "cincinnati-metro-area"},
	{"Wichita", "kansas-city-metro-area"},
	{"Pittsburgh", "bay-area"},
	{"Anchorage", "anchorage-metro-area"},
	{"Honolulu", "honolulu-metro-area"},
	{"Colorado Springs", "denver-metro-area"},
	{"El Paso", "dallas-fortworth-area"},
	{"Lexington", "lexington-metro-area"},
	{"Reno", "sacramento-metro-area"},
	{"Boise", "boise-metro-area"},
	{"Spokane", "seattle-metro-area"},
	{"Baton Rouge", "houston-metro-area"},
	{"Des Moines", "des-moines-metro-area"},
	{"Fort Worth", "dallas-fortworth-area"},
	{"Jacksonville", "orlando-metro-area"},
	{"Little Rock", "conway-metro-area"},
	{"Madison", "madison-metro-area"},
	{"Providence", "providence-metro-area"},
	{"Richmond", "richmond-metro-area"},
	{"Sioux Falls", "sioux-falls-metro-area"},
	{"Springfield", "chicago-metro-area"},
	{"Tucson", "phoenix-metro-area"},
	{"Bakersfield", "los-angeles-metro-area"},
	{"Chattanooga", "chattanooga-metro-area"},
	{"Durham", "research-triangle-area"},
	{"Fargo", "fargo-metro-area"},
	{"Green Bay", "milwaukee-metro-area"},
	{"Harrisburg", "philadelphia-metro-area"},
	{"Lubbock", "dallas-fortworth-area"},
	{"Mobile", "montgomery-metro-area"},
	{"Modesto", "bay-area"},
	{"Montgomery", "montgomery-metro-area"},
	{"Newark", "new-jersey-area"},
	{"Norfolk", "washington-metro-area"},
	{"Olympia", "seattle-metro-area"},
	{"Peoria", "chicago-metro-area"},
	{"Rochester", "new-york-metro-area"},
	{"Salem", "portland-metro-area"},
	{"Santa Fe", "phoenix-metro-area"},
	{"Syracuse", "new-york-metro-area"},
	{"Topeka", "kansas-city-metro-area"},
	{"Wilmington", "philadelphia-metro-area"},
	{"Augusta", "atlanta-metro-area"},
	{"Bismarck", "bismarck-metro-area"},
	{"Cheyenne", "cheyenne-metro-area"},
	{"Dover", "philadelphia-metro-area"},
	{"Helena", "helena-mt"},
	{"Jefferson City", "jefferson-city-mo"},
	{"Lincoln", "kansas-city-metro-area"},
	{"Montpelier", "montpelier-vt"},
	{"Tallahassee", "orlando-metro-area"},
	{"San Jose", "bay-area"},
	{"Fort Lauderdale", "miami-metro-area"},
	{"Riverside", "inland-empire-area"},
	{"Corpus Christi", "houston-metro-area"},
	{"Stockton", "bay-area"},
	{"Santa Ana", "los-angeles-metro-area"},
	{"St. Paul", "st-paul-metro-area"},
}

// All returns a copy of the table in scrape order.
func All() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Lookup finds a city by name, ignoring case and surrounding space.
func Lookup(name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range table {
		if strings.EqualFold(e.City, name) {
			return e, true
		}
	}
	return Entry{}, false
}
