package donation

import (
	"strings"

	"github.com/zerofoodhero/api/internal/model"
)

// categoryKeywords drive the mocked classifier. The real system sends photos
// to an external model; this stands in with an ordered keyword lookup so the
// flow stays testable offline and the same input always yields the same
// guess.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{model.CategoryCooked, []string{"rice", "curry", "dal", "biryani", "pasta", "soup", "meal", "cooked"}},
	{model.CategoryProduce, []string{"apple", "banana", "tomato", "onion", "vegetable", "fruit", "mango", "potato"}},
	{model.CategoryBakery, []string{"bread", "cake", "bun", "pastry", "cookie", "muffin"}},
	{model.CategoryPackaged, []string{"can", "canned", "packet", "chips", "biscuits", "noodles", "cereal"}},
	{model.CategoryDairy, []string{"milk", "cheese", "yogurt", "curd", "butter", "paneer"}},
	{model.CategoryBeverages, []string{"juice", "water", "soda", "tea", "coffee", "drink"}},
}

// Classify guesses a food category from its free-text description.
// Unmatched descriptions fall back to "other" with low confidence.
func Classify(foodType string) (category string, confidence float64) {
	lowered := strings.ToLower(foodType)
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(lowered, w) {
				return entry.category, 0.85
			}
		}
	}
	return model.CategoryOther, 0.4
}
