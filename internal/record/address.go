package record

import (
	"regexp"
	"strings"
)

// addressLineRE matches the closing line of a postal address:
// "City, ST 12345" or "City, ST 12345-6789".
var addressLineRE = regexp.MustCompile(`^(.+),\s*([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)$`)

type AddressParts struct {
	City  string
	State string
	Zip   string
}

// ParseAddress extracts city, state and zip from a free-text address
// whose last non-blank line follows the City, ST ZIP shape. Anything
// else, including a single-line address, reports false with all parts
// empty. It never fails harder than that.
func ParseAddress(address string) (AddressParts, bool) {
	var lines []string
	for _, line := range strings.Split(address, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) < 2 {
		return AddressParts{}, false
	}

	m := addressLineRE.FindStringSubmatch(lines[len(lines)-1])
	if m == nil {
		return AddressParts{}, false
	}
	city := strings.TrimSpace(m[1])
	if city == "" {
		return AddressParts{}, false
	}
	return AddressParts{City: city, State: m[2], Zip: m[3]}, true
}
