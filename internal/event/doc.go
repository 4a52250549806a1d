// Package event provides the canonical records produced by the sulekha event scraper.
//
// Every field of a Record and of its nested sub-records is initialized to a
// sentinel ("N/A") by its constructor, so downstream consumers compare against
// NotAvailable instead of branching on absence. Nested sub-records are pointers
// and are nil when the detail page did not carry that section.
package event
