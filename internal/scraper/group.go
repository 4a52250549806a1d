package scraper

import (
	"bytes"
	"encoding/json"

	"github.com/pfrederiksen/cityevents/internal/event"
)

// Groups maps a section label to its events, remembering the order in which
// labels were first seen. Labels from sections without cards are kept with
// an empty list.
type Groups struct {
	labels []string
	events map[string][]*event.Record
}

// NewGroups returns an empty Groups.
func NewGroups() *Groups {
	return &Groups{events: make(map[string][]*event.Record)}
}

// Add appends records under label, creating the label if needed.
func (g *Groups) Add(label string, recs ...*event.Record) {
	if _, ok := g.events[label]; !ok {
		g.labels = append(g.labels, label)
		g.events[label] = []*event.Record{}
	}
	g.events[label] = append(g.events[label], recs...)
}

// Labels returns the labels in insertion order.
func (g *Groups) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Events returns the records filed under label.
func (g *Groups) Events(label string) []*event.Record {
	return g.events[label]
}

// All flattens every group in label order.
func (g *Groups) All() []*event.Record {
	out := make([]*event.Record, 0, g.Len())
	for _, label := range g.labels {
		out = append(out, g.events[label]...)
	}
	return out
}

// Len is the total number of records across all groups.
func (g *Groups) Len() int {
	n := 0
	for _, recs := range g.events {
		n += len(recs)
	}
	return n
}

// replace applies fn to every record in label order, storing the result in
// place.
func (g *Groups) replace(fn func(i int, r *event.Record) *event.Record) {
	i := 0
	for _, label := range g.labels {
		recs := g.events[label]
		for j, r := range recs {
			recs[j] = fn(i, r)
			i++
		}
	}
}

// MarshalJSON encodes the groups as a JSON object whose keys keep insertion
// order.
func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range g.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(g.events[label])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
