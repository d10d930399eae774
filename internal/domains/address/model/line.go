package model

import "strings"

// DefaultCountry is used when a free-text line has no country component.
const DefaultCountry = "Vietnam"

const (
	lineSeparator = ","
	lineJoiner    = ", "
	maxLineParts  = 5
)

// LineParts holds the ordered components of a free-text address line.
type LineParts struct {
	Street   string
	Ward     string
	District string
	City     string
	Country  string
}

// ParseLine splits "street, ward, district, city, country" on commas.
// Missing trailing components stay empty, except Country which falls back to DefaultCountry.
// Anything past the fifth component is folded into Country.
func ParseLine(line string) LineParts {
	raw := strings.Split(line, lineSeparator)

	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}

	if len(parts) > maxLineParts {
		tail := strings.Join(parts[maxLineParts-1:], lineJoiner)
		parts = append(parts[:maxLineParts-1], tail)
	}

	at := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	out := LineParts{
		Street:   at(0),
		Ward:     at(1),
		District: at(2),
		City:     at(3),
		Country:  at(4),
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}
	return out
}

// FormatLine joins the non-empty components with ", ".
func FormatLine(p LineParts) string {
	components := []string{p.Street, p.Ward, p.District, p.City, p.Country}

	nonEmpty := make([]string, 0, len(components))
	for _, c := range components {
		if c = strings.TrimSpace(c); c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return strings.Join(nonEmpty, lineJoiner)
}

// Parts extracts the line components of an address.
func (a Address) Parts() LineParts {
	return LineParts{
		Street:   a.Street,
		Ward:     a.Ward,
		District: a.District,
		City:     a.City,
		Country:  a.Country,
	}
}

// Line is the single-line display form of an address.
func (a Address) Line() string {
	return FormatLine(a.Parts())
}
