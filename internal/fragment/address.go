package fragment

import "strings"

// Address is a free-text postal address split into parts.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// ParseAddress splits a comma-separated address. The first segment is the
// street. With four or more segments the last one is taken as a country, so
// the city is third-from-last and state/zip is second-to-last. With three
// segments city and state/zip are the last two. With two segments the city
// falls back to the second-to-last segment and state/zip stay at def.
// The state/zip segment splits on whitespace into state and zip.
//
// This is a best-effort heuristic over free text and is lossy on unusual
// addresses; parts it cannot derive stay at def.
func ParseAddress(full, def string) Address {
	addr := Address{Street: def, City: def, State: def, Zip: def}

	var parts []string
	for _, p := range strings.Split(full, ",") {
		if p = Normalize(p); p != "" {
			parts = append(parts, p)
		}
	}
	n := len(parts)
	if n == 0 {
		return addr
	}

	addr.Street = parts[0]
	if n < 2 {
		return addr
	}

	stateZip := ""
	switch {
	case n >= 4:
		addr.City = parts[n-3]
		stateZip = parts[n-2]
	case n == 3:
		addr.City = parts[n-2]
		stateZip = parts[n-1]
	default:
		addr.City = parts[n-2]
	}

	if tokens := strings.Fields(stateZip); len(tokens) > 0 {
		addr.State = tokens[0]
		if len(tokens) > 1 {
			addr.Zip = tokens[1]
		}
	}
	return addr
}
