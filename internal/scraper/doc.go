// Package scraper fetches events.sulekha.com metro-area listing pages and
// turns them into grouped event records.
//
// A listing page is split into titled sections of event cards. Each card
// becomes an event.Record; cards under the "Events Near ... Metro Area"
// heading are collected into their own group. When detail fetching is
// enabled, every card's detail page is parsed and merged into its record.
//
// Markup is read through the fragment package, so a missing element never
// fails a card; it only leaves the affected field at its default.
package scraper
