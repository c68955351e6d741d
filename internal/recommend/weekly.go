package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/models"
)

// Adjustment reasons
const (
	ReasonLosingTooFast = "losing too quickly"
	ReasonLossTooSlow   = "loss too slow"
	ReasonGainingFast   = "gaining too quickly"
	ReasonGainTooSlow   = "gain too slow"
	ReasonOnTrack       = "on track"
	ReasonNotEnoughData = "not enough weight data"
	ReasonBulkManual    = "no automatic adjustment for bulk"
	ReasonMaintain      = "maintaining"
)

// CalorieAdjustment maps a weekly weight change (kg) to a daily calorie delta.
// Only the cut thresholds are established policy; the bulk mirror is opt-in.
func CalorieAdjustment(goal models.Goal, weightChange float64, bulkMirrored bool) (int, string) {
	switch goal {
	case models.GoalCut:
		switch {
		case weightChange < constants.CutFastLossThreshold:
			return constants.WeeklyCalorieAdjustment, ReasonLosingTooFast
		case weightChange > constants.CutSlowLossThreshold:
			return -constants.WeeklyCalorieAdjustment, ReasonLossTooSlow
		default:
			return 0, ReasonOnTrack
		}
	case models.GoalBulk:
		if !bulkMirrored {
			return 0, ReasonBulkManual
		}
		switch {
		case weightChange > constants.BulkFastGainThreshold:
			return -constants.WeeklyCalorieAdjustment, ReasonGainingFast
		case weightChange < constants.BulkSlowGainThreshold:
			return constants.WeeklyCalorieAdjustment, ReasonGainTooSlow
		default:
			return 0, ReasonOnTrack
		}
	default:
		return 0, ReasonMaintain
	}
}

// ReviewInput is everything GenerateWeeklyReview reads
type ReviewInput struct {
	Now           time.Time
	WindowDays    int
	Profile       models.UserProfile
	CheckIns      []models.DailyCheckIn
	WeightHistory []models.WeightEntry
	Sessions      []models.WorkoutSession
	BulkMirrored  bool
}

// Window returns the inclusive [start, end] days of the review window ending on now
func Window(now time.Time, days int) (string, string) {
	if days < 1 {
		days = constants.ReviewWindowDays
	}
	end := now.Format(constants.DateFormat)
	start := now.AddDate(0, 0, -(days - 1)).Format(constants.DateFormat)
	return start, end
}

type weightPoint struct {
	day    string
	weight float64
}

// weightPoints merges check-in and weight-history weights into one value per day.
// Check-ins win over weight history for the same day.
func weightPoints(checkIns []models.DailyCheckIn, history []models.WeightEntry) []weightPoint {
	byDay := make(map[string]float64)
	for _, w := range history {
		if w.Weight > 0 {
			byDay[w.Day] = w.Weight
		}
	}
	for _, c := range checkIns {
		if c.Weight > 0 {
			byDay[c.Day] = c.Weight
		}
	}
	points := make([]weightPoint, 0, len(byDay))
	for day, weight := range byDay {
		points = append(points, weightPoint{day: day, weight: weight})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].day < points[j].day })
	return points
}

// WeightChange computes the weight change across the window. With two or more
// points inside the window it is last minus first; with one point it is measured
// against the latest point before the window. It reports false when there is no
// pair of measurements to compare.
func WeightChange(checkIns []models.DailyCheckIn, history []models.WeightEntry, start, end string) (float64, bool) {
	var inside []weightPoint
	var baseline *weightPoint
	for _, p := range weightPoints(checkIns, history) {
		switch {
		case p.day < start:
			baseline = &p
		case p.day <= end:
			inside = append(inside, p)
		}
	}

	switch {
	case len(inside) >= 2:
		return roundKg(inside[len(inside)-1].weight - inside[0].weight), true
	case len(inside) == 1 && baseline != nil:
		return roundKg(inside[0].weight - baseline.weight), true
	default:
		return 0, false
	}
}

// GenerateWeeklyReview derives the review for the window ending at in.Now.
// It does not mutate anything; callers apply NewCalories explicitly.
func GenerateWeeklyReview(in ReviewInput) models.WeeklyReview {
	start, end := Window(in.Now, in.WindowDays)

	review := models.WeeklyReview{
		WindowStart:      start,
		WindowEnd:        end,
		PreviousCalories: in.Profile.Calories,
		GeneratedAt:      in.Now,
	}

	var volume float64
	for _, s := range in.Sessions {
		if s.CompletedAt == nil {
			continue
		}
		day := s.CompletedAt.Format(constants.DateFormat)
		if day < start || day > end {
			continue
		}
		review.Sessions++
		volume += s.TotalVolume()
	}
	if review.Sessions > 0 {
		review.AvgSessionVolume = math.Round(volume/float64(review.Sessions)*100) / 100
	}

	hits := 0
	for _, c := range in.CheckIns {
		if c.Day < start || c.Day > end {
			continue
		}
		review.CheckIns++
		if c.ProteinHit {
			hits++
		}
	}
	if review.CheckIns > 0 {
		review.ProteinHitRate = math.Round(float64(hits)/float64(review.CheckIns)*100) / 100
	}

	change, ok := WeightChange(in.CheckIns, in.WeightHistory, start, end)
	review.WeightChange = change
	review.HasWeightChange = ok
	if ok {
		review.Adjustment, review.Reason = CalorieAdjustment(in.Profile.Goal, change, in.BulkMirrored)
	} else {
		review.Reason = ReasonNotEnoughData
	}

	review.NewCalories = in.Profile.Calories + review.Adjustment
	if review.Adjustment < 0 && review.NewCalories < constants.MinCalorieTarget {
		floor := min(constants.MinCalorieTarget, in.Profile.Calories)
		review.NewCalories = floor
		review.Adjustment = floor - in.Profile.Calories
	}

	return review
}
