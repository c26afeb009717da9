package moderation

import "fmt"

// Rated is a moderated entity carrying review scores.
type Rated interface {
	Moderated
	Scores() (rating, foodRating int)
}

// Summary aggregates approved reviews only. Averages are nil when there is
// nothing to average.
type Summary struct {
	Count             int      `json:"count"`
	AverageRating     *float64 `json:"average_rating"`
	AverageFoodRating *float64 `json:"average_food_rating"`
}

func Summarize[T Rated](reviews []T) Summary {
	var count, ratingSum, foodSum int
	for _, r := range reviews {
		if r.ModerationStatus() != StatusApproved {
			continue
		}
		rating, food := r.Scores()
		count++
		ratingSum += rating
		foodSum += food
	}
	if count == 0 {
		return Summary{}
	}
	avgRating := float64(ratingSum) / float64(count)
	avgFood := float64(foodSum) / float64(count)
	return Summary{Count: count, AverageRating: &avgRating, AverageFoodRating: &avgFood}
}

// Display formats the averages the way listings show them.
func (s Summary) Display() (rating, food string) {
	return formatAverage(s.AverageRating), formatAverage(s.AverageFoodRating)
}

func formatAverage(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}
