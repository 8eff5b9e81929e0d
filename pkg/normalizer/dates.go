package normalizer

import (
	"regexp"
	"strings"
	"time"
)

// Banks localize timestamps as DD/MM/YYYY HH:MM:SS; OFX wants YYYYMMDDHHMMSS.
var localizedDateRe = regexp.MustCompile(
	`<(DTSERVER|DTACCTUP|DTSTART|DTEND|DTPOSTED|DTUSER|DTAVAIL)>\s*(\d{2}/\d{2}/\d{4}\s+\d{2}:\d{2}:\d{2})`)

// NormalizeDates rewrites localized date values on the known date tags into
// the compact OFX form. Values that do not name a real calendar moment, like
// 32/01 or hour 25, are left exactly as found; the parser downstream decides
// their fate. Returns the rewrite count.
func NormalizeDates(s string) (string, int) {
	n := 0
	s = localizedDateRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := localizedDateRe.FindStringSubmatch(m)
		value := strings.Join(strings.Fields(sub[2]), " ")
		t, err := time.Parse("02/01/2006 15:04:05", value)
		if err != nil {
			return m
		}
		n++
		return "<" + sub[1] + ">" + t.Format("20060102150405")
	})
	return s, n
}
