package keep

import (
	"fmt"
	"strings"
	"time"
)

// Heading date layouts observed in Takeout exports, tried in order.
//
// Slash-separated numeric dates are the US rendering and are read month
// first ("03/04/2020" is 4 March 2020); the day-first reading is only used
// when the month-first one is impossible ("25/03/2020"). Dotted and dashed
// numeric dates are European renderings and are always read day first.
var headingLayouts = []string{
	// "03/04/2020 10:00:00", "3/4/2020, 10:00:00 AM", "3/4/20, 10:00 AM"
	"1/2/2006 15:04:05",
	"1/2/2006, 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 15:04",
	"1/2/2006, 15:04",
	"1/2/2006, 3:04 PM",
	"1/2/06, 3:04 PM",
	"1/2/06, 15:04",
	"1/2/2006",

	// "25/03/2020 10:00:00"
	"2/1/2006 15:04:05",
	"2/1/2006, 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006, 15:04",
	"2/1/06, 15:04",
	"2/1/2006",

	// "04.03.2020, 10:00:00", "04-03-2020 10:00"
	"2.1.2006, 15:04:05",
	"2.1.2006 15:04:05",
	"2.1.2006, 15:04",
	"2.1.2006 15:04",
	"2.1.06, 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",

	// "2020-03-04 10:00:00"
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",

	// "Mar 4, 2020, 10:00:00 AM", "4 Mar 2020, 10:00:00"
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 2, 2006 3:04:05 PM",
	"January 2, 2006, 3:04:05 PM",
	"January 2, 2006 3:04:05 PM",
	"Jan 2, 2006, 15:04:05",
	"2 Jan 2006, 15:04:05",
	"2 Jan 2006 15:04:05",
	"2 January 2006, 15:04:05",
	"2 January 2006 15:04:05",
	"2 Jan 2006, 3:04:05 PM",

	// "Mar 4, 2020, 10:00 AM", "4 Mar 2020, 10:00"
	"Jan 2, 2006, 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006, 3:04 PM",
	"January 2, 2006 3:04 PM",
	"Jan 2, 2006, 15:04",
	"2 Jan 2006, 15:04",
	"2 Jan 2006 15:04",
	"2 January 2006, 15:04",
	"2 January 2006 15:04",
	"2 Jan 2006, 3:04 PM",
}

// ParseHeadingDate parses the creation date shown in a note heading.
func ParseHeadingDate(heading string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	normalized := normalizeHeading(heading)
	if normalized == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range headingLayouts {
		t, err := time.ParseInLocation(layout, normalized, loc)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format %q", heading)
}

// normalizeHeading replaces the no-break spaces newer exports put before
// AM/PM and collapses runs of whitespace.
func normalizeHeading(heading string) string {
	heading = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(heading)
	return strings.Join(strings.Fields(heading), " ")
}
