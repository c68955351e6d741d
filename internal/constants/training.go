package constants

const (
	// Progressive overload
	OverloadIncrementKg   = 2.5
	OverloadHighRepFloor  = 12 // every set at or above this: add weight
	OverloadMidRepFloor   = 10 // every set at or above this: add weight or a rep
	OverloadLowRepFloor   = 8  // every set at or above this and below the high floor: add a rep
	OverloadResetRepRange = "8-10"

	// Weekly adaptive calories (kg per week, kcal per day)
	ReviewWindowDays        = 7
	CutFastLossThreshold    = -1.0
	CutSlowLossThreshold    = -0.3
	BulkFastGainThreshold   = 1.0
	BulkSlowGainThreshold   = 0.3
	WeeklyCalorieAdjustment = 200
	MinCalorieTarget        = 1200

	// Macro split
	FatCaloriesShare = 0.25
	KcalPerGramFat   = 9
	KcalPerGramCarb  = 4
	KcalPerGramProt  = 4

	// Goal calorie offsets from maintenance
	CutCalorieOffset  = -500
	BulkCalorieOffset = 300

	// Protein grams per kg of body weight
	CutProteinPerKg      = 2.2
	BulkProteinPerKg     = 2.0
	MaintainProteinPerKg = 1.8
)
