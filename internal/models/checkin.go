package models

import "time"

// WeightEntry is one body-weight measurement
type WeightEntry struct {
	Day    string    `json:"day"` // YYYY-MM-DD format
	Weight float64   `json:"weight"`
	At     time.Time `json:"at"`
}

// DailyCheckIn is the user's end-of-day adherence log
type DailyCheckIn struct {
	Day        string    `json:"day"` // YYYY-MM-DD format
	Weight     float64   `json:"weight"`
	ProteinHit bool      `json:"proteinHit"`
	Calories   *int      `json:"calories,omitempty"`
	Sleep      *int      `json:"sleep,omitempty"` // 1-5
	CreatedAt  time.Time `json:"createdAt"`
}

// WeeklyReview summarizes a review window and the calorie adjustment derived from it
type WeeklyReview struct {
	WindowStart      string    `json:"windowStart"`
	WindowEnd        string    `json:"windowEnd"`
	WeightChange     float64   `json:"weightChange"`
	HasWeightChange  bool      `json:"hasWeightChange"`
	Sessions         int       `json:"sessions"`
	AvgSessionVolume float64   `json:"avgSessionVolume"`
	ProteinHitRate   float64   `json:"proteinHitRate"` // 0..1
	CheckIns         int       `json:"checkIns"`
	Adjustment       int       `json:"adjustment"`
	Reason           string    `json:"reason"`
	PreviousCalories int       `json:"previousCalories"`
	NewCalories      int       `json:"newCalories"`
	GeneratedAt      time.Time `json:"generatedAt"`
}
