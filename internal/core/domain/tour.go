package domain

import "time"

// Difficulty grades a tour.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// Tour is the bookable resource guarded by role-restricted routes.
type Tour struct {
	ID           string      `json:"id" bson:"_id,omitempty"`
	Name         string      `json:"name" bson:"name"`
	Slug         string      `json:"slug,omitempty" bson:"slug,omitempty"`
	Duration     int         `json:"duration" bson:"duration"`
	MaxGroupSize int         `json:"maxGroupSize" bson:"maxGroupSize"`
	Difficulty   Difficulty  `json:"difficulty" bson:"difficulty"`
	Price        float64     `json:"price" bson:"price"`
	Summary      string      `json:"summary,omitempty" bson:"summary,omitempty"`
	StartDates   []time.Time `json:"startDates,omitempty" bson:"startDates,omitempty"`
	CreatedAt    time.Time   `json:"createdAt" bson:"createdAt"`
}

// MonthlyPlan aggregates the tours starting in one calendar month.
type MonthlyPlan struct {
	Month         int      `json:"month" bson:"_id"`
	NumTourStarts int      `json:"numTourStarts" bson:"numTourStarts"`
	Tours         []string `json:"tours" bson:"tours"`
}
