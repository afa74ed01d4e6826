package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ReadTimeUnit is appended to the minute count
const ReadTimeUnit = "dakika"

const wordsPerMinute = 200

// foldTable maps Turkish letters and common Latin accents (both cases)
// to ASCII. It runs before and after lowercasing so that İ and I never
// reach the locale-sensitive case mapping unfolded.
var foldTable = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "I", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
	"â", "a", "Â", "a", "á", "a", "Á", "a", "à", "a", "À", "a", "ä", "a", "Ä", "a",
	"é", "e", "É", "e", "è", "e", "È", "e", "ê", "e", "Ê", "e", "ë", "e", "Ë", "e",
	"î", "i", "Î", "i", "í", "i", "Í", "i", "ï", "i", "Ï", "i",
	"ó", "o", "Ó", "o", "ò", "o", "Ò", "o", "ô", "o", "Ô", "o",
	"û", "u", "Û", "u", "ú", "u", "Ú", "u", "ù", "u", "Ù", "u",
	"ñ", "n", "Ñ", "n",
)

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL slug from a title. The result contains only
// [a-z0-9-], has no repeated, leading or trailing hyphen, and may be empty.
func GenerateSlug(title string) string {
	s := foldTable.Replace(title)
	s = strings.ToLower(s)
	s = foldTable.Replace(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ReadTimeMinutes estimates minutes at 200 words per minute, rounding
// halves to even, never below one.
func ReadTimeMinutes(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.RoundToEven(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// CalculateReadTime formats ReadTimeMinutes for display, e.g. "3 dakika"
func CalculateReadTime(content string) string {
	return strconv.Itoa(ReadTimeMinutes(content)) + " " + ReadTimeUnit
}
