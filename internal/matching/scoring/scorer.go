// Package scoring computes buyer/property compatibility scores. The
// scorer is a pure function; the matching module's service and handler
// expose it over HTTP using live buyer and property data.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Component weights. They sum to 100, which is also the score ceiling.
const (
	priceWeight    = 40.0
	locationWeight = 30.0
	stateWeight    = 15.0
	typeWeight     = 20.0
	cashBonus      = 10.0

	// noPreferenceScore is the flat score for buyers without a stated
	// preference: still worth a phone call, never a top match.
	noPreferenceScore = 10
)

// Preference is a buyer's stated deal criteria.
type Preference struct {
	MinPrice      *float64
	MaxPrice      *float64
	Areas         []string
	PropertyTypes []string
}

// BuyerProfile is the scorer's view of a buyer. Preference is the
// buyer's first preference record, or nil when none exists.
type BuyerProfile struct {
	ID           uuid.UUID
	Name         string
	CashBuyer    bool
	ProofOfFunds *float64
	Preference   *Preference
}

// PropertySnapshot is the subset of property attributes the scorer reads.
type PropertySnapshot struct {
	Price        *float64
	PropertyType *string
	City         string
	State        string
}

// MatchResult is one buyer's compatibility with a property.
type MatchResult struct {
	BuyerID      uuid.UUID `json:"buyerId"`
	BuyerName    string    `json:"buyerName"`
	MatchScore   int       `json:"matchScore"`
	MatchReasons []string  `json:"matchReasons"`
}

// ScoreBuyers computes a 0-100 compatibility score per buyer and returns
// results sorted by score descending, buyer name ascending on ties.
// Absent property or preference fields zero out their component; the
// function never fails.
func ScoreBuyers(buyers []BuyerProfile, property PropertySnapshot) []MatchResult {
	results := make([]MatchResult, 0, len(buyers))
	for _, buyer := range buyers {
		results = append(results, scoreBuyer(buyer, property))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].BuyerName < results[j].BuyerName
	})

	return results
}

func scoreBuyer(buyer BuyerProfile, property PropertySnapshot) MatchResult {
	if buyer.Preference == nil {
		return MatchResult{
			BuyerID:      buyer.ID,
			BuyerName:    buyer.Name,
			MatchScore:   noPreferenceScore,
			MatchReasons: []string{"General investor"},
		}
	}

	pref := buyer.Preference
	var score float64
	var reasons []string

	if points, reason, ok := scorePrice(property.Price, pref); ok {
		score += points
		reasons = append(reasons, reason)
	}

	if points, reason, ok := scoreLocation(property.City, property.State, pref.Areas); ok {
		score += points
		reasons = append(reasons, reason)
	}

	if points, reason, ok := scorePropertyType(property.PropertyType, pref.PropertyTypes); ok {
		score += points
		reasons = append(reasons, reason)
	}

	if buyer.CashBuyer {
		score += cashBonus
		reasons = append(reasons, "Cash buyer")
	}

	// Funds note is informational only and never moves the score.
	if buyer.ProofOfFunds != nil && property.Price != nil {
		if *buyer.ProofOfFunds >= *property.Price {
			reasons = append(reasons, "Sufficient funds")
		} else {
			reasons = append(reasons, "May need financing")
		}
	}

	return MatchResult{
		BuyerID:      buyer.ID,
		BuyerName:    buyer.Name,
		MatchScore:   clampScore(math.Round(score)),
		MatchReasons: reasons,
	}
}

// scorePrice awards up to priceWeight points. Prices at the range
// boundaries count as inside it; outside the range the award decays
// proportionally with distance.
func scorePrice(price *float64, pref *Preference) (float64, string, bool) {
	if price == nil {
		return 0, "", false
	}

	lo := 0.0
	if pref.MinPrice != nil {
		lo = *pref.MinPrice
	}
	hi := math.Inf(1)
	if pref.MaxPrice != nil {
		hi = *pref.MaxPrice
	}

	switch {
	case *price >= lo && *price <= hi:
		return priceWeight, fmt.Sprintf("Price range match (%s)", priceRangeLabel(pref.MinPrice, pref.MaxPrice)), true
	case *price < lo:
		points := math.Max(0, (*price/lo)*priceWeight)
		return points, "Below preferred price range", true
	default:
		points := math.Max(0, (hi / *price)*priceWeight)
		return points, "Above preferred price range", true
	}
}

func scoreLocation(city, state string, areas []string) (float64, string, bool) {
	if city == "" || len(areas) == 0 {
		return 0, "", false
	}

	cityLower := strings.ToLower(city)
	for _, area := range areas {
		areaLower := strings.ToLower(strings.TrimSpace(area))
		if areaLower == "" {
			continue
		}
		if strings.Contains(areaLower, cityLower) || strings.Contains(cityLower, areaLower) {
			return locationWeight, fmt.Sprintf("Location match (%s)", city), true
		}
	}

	if state != "" {
		stateLower := strings.ToLower(state)
		for _, area := range areas {
			if strings.Contains(strings.ToLower(area), stateLower) {
				return stateWeight, fmt.Sprintf("State match (%s)", state), true
			}
		}
	}

	return 0, "", false
}

func scorePropertyType(propertyType *string, preferredTypes []string) (float64, string, bool) {
	if propertyType == nil || *propertyType == "" || len(preferredTypes) == 0 {
		return 0, "", false
	}

	for _, preferred := range preferredTypes {
		if strings.EqualFold(strings.TrimSpace(preferred), *propertyType) {
			return typeWeight, fmt.Sprintf("Property type match (%s)", *propertyType), true
		}
	}

	return 0, "", false
}

// clampScore caps the rounded sum to [0, 100]. The weights already top
// out at 100, so the clamp only guards against future weight changes.
func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

func priceRangeLabel(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("$%.0f - $%.0f", *min, *max)
	case min != nil:
		return fmt.Sprintf("$%.0f+", *min)
	case max != nil:
		return fmt.Sprintf("up to $%.0f", *max)
	default:
		return "any price"
	}
}
