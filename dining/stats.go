package dining

// Stats summarizes a table.
type Stats struct {
	Thinking   int `json:"thinking"`
	Hungry     int `json:"hungry"`
	Eating     int `json:"eating"`
	Sleeping   int `json:"sleeping"`
	Dead       int `json:"dead"`
	TotalMeals int `json:"total_meals"`
	MinMeals   int `json:"min_meals"`
	MaxMeals   int `json:"max_meals"`
}

// StatsOf computes the stats of a set of philosophers.
func StatsOf(philosophers []PhilosopherSnapshot) Stats {
	var s Stats

	for i, p := range philosophers {
		switch p.State {
		case StateThinking:
			s.Thinking++
		case StateHungry:
			s.Hungry++
		case StateEating:
			s.Eating++
		case StateSleeping:
			s.Sleeping++
		case StateDead:
			s.Dead++
		}

		s.TotalMeals += p.EatCount

		if i == 0 || p.EatCount < s.MinMeals {
			s.MinMeals = p.EatCount
		}

		if p.EatCount > s.MaxMeals {
			s.MaxMeals = p.EatCount
		}
	}

	return s
}
