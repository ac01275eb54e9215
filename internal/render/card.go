// Package render prints restaurants as plain-text cards.
package render

import (
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/restaurant-finder/api/internal/entity"
)

const (
	photoSize          = "400x400"
	defaultPhoneRegion = "US"
)

var idnaProfile = idna.Display

// Card writes one restaurant. keyword picks the category badge; the first category is
// used when nothing matches.
func Card(w io.Writer, r entity.Restaurant, keyword string) error {
	var b strings.Builder

	status := "Closed"
	if r.Hours != nil && r.Hours.OpenNow != nil && *r.Hours.OpenNow {
		status = "Open Now"
	}
	fmt.Fprintf(&b, "%s  [%s]", r.Name, status)
	if badge := CategoryBadge(r.Categories, keyword); badge != "" {
		fmt.Fprintf(&b, "  (%s)", badge)
	}
	b.WriteByte('\n')

	if addr := Address(r.Location); addr != "" {
		fmt.Fprintf(&b, "  %s\n", addr)
	}
	if r.Rating != nil {
		fmt.Fprintf(&b, "  Rating: %s %s/10\n", Stars(*r.Rating), formatRating(*r.Rating))
	}
	if r.Price != nil {
		fmt.Fprintf(&b, "  Price:  %s\n", Price(*r.Price))
	}
	if r.Hours != nil && strings.TrimSpace(r.Hours.Display) != "" {
		b.WriteString("  Hours:\n")
		for _, line := range HoursLines(r.Hours.Display) {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	if phone := Phone(r.Tel, countryOf(r.Location)); phone != "" {
		fmt.Fprintf(&b, "  Phone:  %s\n", phone)
	}
	if site := WebsiteHost(r.Website); site != "" {
		fmt.Fprintf(&b, "  Web:    %s\n", site)
	}
	if len(r.Photos) > 0 {
		fmt.Fprintf(&b, "  Photo:  %s\n", r.Photos[0].URL(photoSize))
	} else {
		b.WriteString("  Photo:  No Image Found\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Address prefers the formatted address and falls back to "address, locality".
func Address(loc *entity.Location) string {
	if loc == nil {
		return ""
	}
	if s := strings.TrimSpace(loc.FormattedAddress); s != "" {
		return s
	}
	var parts []string
	for _, p := range []string{loc.Address, loc.Locality} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// CategoryBadge returns the short name of the category matching keyword.
func CategoryBadge(categories []entity.Category, keyword string) string {
	if len(categories) == 0 {
		return ""
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword != "" {
		for _, c := range categories {
			if strings.ToLower(shortName(c)) == keyword {
				return shortName(c)
			}
		}
	}
	return shortName(categories[0])
}

func shortName(c entity.Category) string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Name
}

// Stars converts a 0-10 rating into five stars with an optional half star.
func Stars(rating float64) string {
	stars := math.Max(0, math.Min(rating/2, 5))
	full := int(math.Floor(stars))
	half := stars-float64(full) >= 0.5
	empty := 5 - full
	if half {
		empty--
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("⯪")
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

func formatRating(rating float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", rating), "0"), ".")
}

// Price renders a 1-4 price level as dollar signs.
func Price(level int) string {
	if level < 1 {
		return ""
	}
	return strings.Repeat("$", min(level, 4))
}

// HoursLines splits a display string such as "Mon-Fri 9:00 AM-9:00 PM; Sat 10:00 AM-8:00 PM".
func HoursLines(display string) []string {
	var lines []string
	for _, part := range strings.Split(display, ";") {
		if s := strings.TrimSpace(part); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}

// Phone formats a number in the international format of its region. Unparseable numbers
// are returned as given.
func Phone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

func countryOf(loc *entity.Location) string {
	if loc == nil {
		return ""
	}
	return loc.Country
}

// WebsiteHost returns the Unicode host name of a website URL.
func WebsiteHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if unicode, err := idnaProfile.ToUnicode(host); err == nil {
		return unicode
	}
	return host
}
