package geocode

import (
	"regexp"
	"strings"
)

// Japanese freeform venue strings mix postal codes, building names, and
// floor numbers into the address ("〒150-0043 東京都渋谷区道玄坂1-2-3
// 渋谷フクラス 16F"). External geocoders handle the bare
// prefecture+city+street form far better, so normalization anchors on the
// prefecture name, the city/ward suffix, and the trailing street-number run
// and extracts that substring. When the anchors don't line up the lightly
// cleaned original is used instead.

var (
	postalCodeRe = regexp.MustCompile(`〒\d{3}-?\d{4}\s*`)

	prefecturePat = `(?:東京都|北海道|京都府|大阪府|\p{Han}{2,3}県)`
	wardCityPat   = `\p{Han}[\p{Han}\p{Hiragana}ヶ]{0,5}(?:市|区|町|村)`

	canonicalRe = regexp.MustCompile(
		prefecturePat + `?` + wardCityPat + `[^\s、。]*?[0-9０-９]+(?:[-ー−‐][0-9０-９]+)*`,
	)
	localityRe = regexp.MustCompile(prefecturePat + `|` + wardCityPat)

	floorRe    = regexp.MustCompile(`\s*B?\d+F\b\s*|\s*\d+階\S*`)
	buildingRe = regexp.MustCompile(`\s+\S*(?:ビル|タワー|センター|会館|ホール)\S*`)
)

// Normalize produces the canonical form of a raw address. The result is
// both the geocoding query and the cache key, so two providers quoting the
// same venue slightly differently still share one cache entry.
func Normalize(raw string) string {
	cleaned := postalCodeRe.ReplaceAllString(raw, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if m := canonicalRe.FindString(cleaned); m != "" {
		return m
	}
	return cleaned
}

// Locality extracts the prefecture or city/ward token from a normalized
// address, used to sanity-check what an external geocoder claims to have
// found. Empty when no anchor is present.
func Locality(normalized string) string {
	return localityRe.FindString(normalized)
}

// StripBuilding removes floor markers and building-name segments, leaving
// the street address. Some geocoders return nothing when the query still
// carries a building name.
func StripBuilding(address string) string {
	s := floorRe.ReplaceAllString(address, " ")
	s = buildingRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
