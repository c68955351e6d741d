package models

// Goal is the body-composition goal of the user
type Goal string

const (
	GoalCut      Goal = "cut"
	GoalBulk     Goal = "bulk"
	GoalMaintain Goal = "maintain"
)

// Valid reports whether g is a known goal
func (g Goal) Valid() bool {
	switch g {
	case GoalCut, GoalBulk, GoalMaintain:
		return true
	}
	return false
}

// ActivityLevel describes how active the user is outside training
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Multiplier returns the TDEE multiplier for the activity level.
// Unknown levels are treated as sedentary.
func (a ActivityLevel) Multiplier() float64 {
	switch a {
	case ActivityLight:
		return 1.375
	case ActivityModerate:
		return 1.55
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	default:
		return 1.2
	}
}

// Valid reports whether a is a known activity level
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// Gender is used only by the BMR estimate
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// UserProfile holds the user's body data, goal and the derived daily targets
type UserProfile struct {
	Name          string        `json:"name"`
	Weight        float64       `json:"weight"` // kg
	Height        float64       `json:"height"` // cm
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	Goal          Goal          `json:"goal"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	TrainingDays  int           `json:"trainingDays"` // per week
	TargetWeight  float64       `json:"targetWeight"`

	// Derived targets
	Calories int `json:"calories"`
	ProteinG int `json:"proteinG"`
	FatG     int `json:"fatG"`
	CarbsG   int `json:"carbsG"`
}

// IsZero reports whether the profile has never been set up
func (p UserProfile) IsZero() bool {
	return p.Weight == 0 && p.Height == 0 && p.Age == 0
}
