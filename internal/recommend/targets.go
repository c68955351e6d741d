package recommend

import (
	"math"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// Targets are the derived daily nutrition targets
type Targets struct {
	Calories int
	ProteinG int
	FatG     int
	CarbsG   int
}

// BMR estimates basal metabolic rate with the Mifflin-St Jeor equation
func BMR(p models.UserProfile) float64 {
	base := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	switch p.Gender {
	case models.GenderMale:
		return base + 5
	case models.GenderFemale:
		return base - 161
	default:
		return base - 78
	}
}

// TDEE is BMR scaled by the activity multiplier
func TDEE(p models.UserProfile) float64 {
	return BMR(p) * p.ActivityLevel.Multiplier()
}

// DailyTargets derives the calorie and macro targets from the profile
func DailyTargets(p models.UserProfile) Targets {
	calories := int(math.Round(TDEE(p)))
	switch p.Goal {
	case models.GoalCut:
		calories += constants.CutCalorieOffset
	case models.GoalBulk:
		calories += constants.BulkCalorieOffset
	}
	if calories < constants.MinCalorieTarget {
		calories = constants.MinCalorieTarget
	}
	return MacrosFor(calories, p.Weight, p.Goal)
}

// MacrosFor splits a calorie budget into protein, fat and carbs
func MacrosFor(calories int, weight float64, goal models.Goal) Targets {
	perKg := constants.MaintainProteinPerKg
	switch goal {
	case models.GoalCut:
		perKg = constants.CutProteinPerKg
	case models.GoalBulk:
		perKg = constants.BulkProteinPerKg
	}

	protein := int(math.Round(weight * perKg))
	fat := int(math.Round(float64(calories) * constants.FatCaloriesShare / constants.KcalPerGramFat))
	remaining := float64(calories - protein*constants.KcalPerGramProt - fat*constants.KcalPerGramFat)
	carbs := int(math.Round(remaining / constants.KcalPerGramCarb))
	if carbs < 0 {
		carbs = 0
	}

	return Targets{
		Calories: calories,
		ProteinG: protein,
		FatG:     fat,
		CarbsG:   carbs,
	}
}

// Apply writes the targets into the profile
func (t Targets) Apply(p *models.UserProfile) {
	p.Calories = t.Calories
	p.ProteinG = t.ProteinG
	p.FatG = t.FatG
	p.CarbsG = t.CarbsG
}
