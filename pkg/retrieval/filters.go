package retrieval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andrew/listing-rag/pkg/models"
)

// Recognized filter patterns. Values are cut at the first comma
// ("market=Paris, please" yields "Paris").
var (
	idPattern       = regexp.MustCompile(`(?i)id=(\d{8})`)
	countryPattern  = regexp.MustCompile(`(?i)country=([^" ]+)`)
	marketPattern   = regexp.MustCompile(`(?i)market=([^" ]+)`)
	bedsPattern     = regexp.MustCompile(`(?i)beds=(\d+)`)
	bedroomsPattern = regexp.MustCompile(`(?i)bedrooms=(\d+)`)
)

// ExtractFilters parses a question into structured constraints. An 8-digit
// identifier token short-circuits everything else: only the identifier
// filter is returned and direct=true tells the caller to skip vector search
// entirely. With no identifier, any other recognized tokens accumulate into
// the filter list. No match at all yields a nil list — a normal outcome,
// not an error.
func ExtractFilters(question string) (filters []models.Filter, direct bool) {
	if id := firstGroup(idPattern, question); id != "" {
		return []models.Filter{{Field: "_id", Value: id}}, true
	}

	if country := firstGroup(countryPattern, question); country != "" {
		filters = append(filters, models.Filter{Field: "address.country_code", Value: country})
	}
	if market := firstGroup(marketPattern, question); market != "" {
		filters = append(filters, models.Filter{Field: "address.market", Value: market})
	}
	if beds := firstGroup(bedsPattern, question); beds != "" {
		if n, err := strconv.Atoi(beds); err == nil {
			filters = append(filters, models.Filter{Field: "beds", Value: n})
		}
	}
	if bedrooms := firstGroup(bedroomsPattern, question); bedrooms != "" {
		if n, err := strconv.Atoi(bedrooms); err == nil {
			filters = append(filters, models.Filter{Field: "bedrooms", Value: n})
		}
	}

	return filters, false
}

// firstGroup returns the first capture group of the pattern, truncated at
// the first comma, or "" when the pattern does not match.
func firstGroup(pattern *regexp.Regexp, question string) string {
	match := pattern.FindStringSubmatch(question)
	if match == nil {
		return ""
	}
	return strings.SplitN(match[1], ",", 2)[0]
}
