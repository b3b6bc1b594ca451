package timestamps

import "time"

// Style values accepted for the date and time parts of Format
const (
	StyleFull   = "full"
	StyleLong   = "long"
	StyleMedium = "medium"
	StyleShort  = "short"
	StyleNone   = "none"
)

// Style selects how the date part and the time part of a value are rendered.
// An empty part is treated as "none". When neither part selects anything the
// value renders as a medium date and a short time.
type Style struct {
	Date string
	Time string
}

var dateLayouts = map[string]string{
	StyleFull:   "Monday, January 2, 2006",
	StyleLong:   "January 2, 2006",
	StyleMedium: "Jan 2, 2006",
	StyleShort:  "1/2/06",
}

var timeLayouts = map[string]string{
	StyleFull:   "3:04:05 PM MST",
	StyleLong:   "3:04:05 PM MST",
	StyleMedium: "3:04:05 PM",
	StyleShort:  "3:04 PM",
}

// Format normalizes v and renders it in the location loc (time.Local when nil).
// fallback is returned for anything Normalize rejects.
func Format(v interface{}, style Style, loc *time.Location, fallback string) string {
	t, ok := Normalize(v)
	if !ok {
		return fallback
	}
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)

	dl, hasDate := dateLayouts[style.Date]
	tl, hasTime := timeLayouts[style.Time]
	if !hasDate && !hasTime {
		style = Style{Date: StyleMedium, Time: StyleShort}
		dl, tl = dateLayouts[StyleMedium], timeLayouts[StyleShort]
		hasDate, hasTime = true, true
	}

	switch {
	case hasDate && hasTime:
		sep := ", "
		if style.Date == StyleFull || style.Date == StyleLong {
			sep = " at "
		}
		return t.Format(dl) + sep + t.Format(tl)
	case hasDate:
		return t.Format(dl)
	}
	return t.Format(tl)
}
