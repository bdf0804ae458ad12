package usecase

import (
	"sort"
	"time"

	"github.com/pierrolalune/CookBook2-sub001/internal/domain"
)

// Seasonal bonus weights
const (
	inSeasonBonus    = 2  // Every ingredient currently in season (peak included)
	peakSeasonBonus  = 3  // Added on top for peak-season ingredients
	maxSeasonalBonus = 15 // Cap for a whole recipe
)

// ClassifySeason returns the simple seasonal state of an ingredient for the
// month of now: year-round, peak-season, in-season or out-of-season.
func ClassifySeason(ingredient domain.Ingredient, now time.Time) domain.SeasonStatus {
	seasonal := ingredient.Seasonal
	if seasonal == nil {
		return domain.SeasonYearRound
	}

	month := int(now.Month())
	if containsMonth(seasonal.PeakMonths, month) {
		return domain.SeasonPeak
	}
	if containsMonth(seasonal.Months, month) {
		return domain.SeasonIn
	}
	return domain.SeasonOut
}

// ClassifySeasonDetailed refines ClassifySeason by placing the month inside
// its contiguous run of season months. Runs may wrap from December to
// January. Peak months always win; a single-month run is reported as
// beginning-of-season.
func ClassifySeasonDetailed(ingredient domain.Ingredient, now time.Time) domain.SeasonStatus {
	status := ClassifySeason(ingredient, now)
	if status != domain.SeasonIn {
		return status
	}

	month := int(now.Month())
	for _, segment := range seasonSegments(ingredient.Seasonal.Months) {
		idx := indexOfMonth(segment, month)
		if idx < 0 {
			continue
		}
		switch {
		case idx == 0:
			return domain.SeasonBeginning
		case idx == len(segment)-1:
			return domain.SeasonEnd
		default:
			return domain.SeasonIn
		}
	}

	return domain.SeasonIn
}

// IsInSeason reports whether the ingredient is in or at the peak of its season.
// Year-round ingredients are not counted as seasonal.
func IsInSeason(ingredient domain.Ingredient, now time.Time) bool {
	return ClassifySeason(ingredient, now).Available()
}

// SeasonalBonus scores a recipe for using seasonal produce:
// 2 points per in-season ingredient, 3 more when at its peak, capped at 15.
// Required and optional ingredients both count.
func SeasonalBonus(recipe domain.Recipe, now time.Time) int {
	inSeason := 0
	peak := 0
	for _, ref := range recipe.Ingredients {
		switch ClassifySeason(ref.Ingredient, now) {
		case domain.SeasonPeak:
			inSeason++
			peak++
		case domain.SeasonIn:
			inSeason++
		}
	}

	bonus := inSeasonBonus*inSeason + peakSeasonBonus*peak
	if bonus > maxSeasonalBonus {
		bonus = maxSeasonalBonus
	}
	return bonus
}

// seasonSegments splits season months into runs of consecutive months.
// December followed by January is consecutive, so [1 2 12] yields [[12 1 2]].
func seasonSegments(months []int) [][]int {
	sorted := uniqueSortedMonths(months)
	if len(sorted) == 0 {
		return nil
	}

	var segments [][]int
	current := []int{sorted[0]}
	for _, m := range sorted[1:] {
		if m == current[len(current)-1]+1 {
			current = append(current, m)
			continue
		}
		segments = append(segments, current)
		current = []int{m}
	}
	segments = append(segments, current)

	// Wrap-around: a run ending in December continues into the run starting in January
	if len(segments) > 1 {
		first := segments[0]
		last := segments[len(segments)-1]
		if first[0] == 1 && last[len(last)-1] == 12 {
			merged := append(append([]int{}, last...), first...)
			segments = append([][]int{merged}, segments[1:len(segments)-1]...)
		}
	}

	return segments
}

// uniqueSortedMonths drops duplicates and values outside 1..12
func uniqueSortedMonths(months []int) []int {
	seen := make(map[int]bool, len(months))
	out := make([]int, 0, len(months))
	for _, m := range months {
		if m < 1 || m > 12 || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

func containsMonth(months []int, month int) bool {
	return indexOfMonth(months, month) >= 0
}

func indexOfMonth(months []int, month int) int {
	for i, m := range months {
		if m == month {
			return i
		}
	}
	return -1
}
