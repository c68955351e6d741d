package engine

import (
	"math"
	"strings"
	"time"

	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/errors"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/recommend"
)

// CheckIn is the user input for a daily check-in
type CheckIn struct {
	Day        string // YYYY-MM-DD, empty for today
	Weight     float64
	ProteinHit bool
	Calories   *int
	Sleep      *int // 1-5
}

func validateProfile(p models.UserProfile) error {
	switch {
	case !positive(p.Weight):
		return errors.InvalidInput("weight must be a positive number, got %v", p.Weight)
	case !positive(p.Height):
		return errors.InvalidInput("height must be a positive number, got %v", p.Height)
	case p.Age < 1 || p.Age > 120:
		return errors.InvalidInput("age must be between 1 and 120, got %d", p.Age)
	case !p.Goal.Valid():
		return errors.InvalidInput("goal must be cut, bulk or maintain, got %q", p.Goal)
	case !p.ActivityLevel.Valid():
		return errors.InvalidInput("unknown activity level %q", p.ActivityLevel)
	case p.TrainingDays < 0 || p.TrainingDays > 7:
		return errors.InvalidInput("training days must be between 0 and 7, got %d", p.TrainingDays)
	case p.TargetWeight < 0 || math.IsNaN(p.TargetWeight) || math.IsInf(p.TargetWeight, 0):
		return errors.InvalidInput("target weight must not be negative, got %v", p.TargetWeight)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// UpdateProfile replaces the profile, recalculates the daily targets from it
// and records its weight for today
func (e *Engine) UpdateProfile(p models.UserProfile) (models.UserProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProfile(p); err != nil {
		return models.UserProfile{}, err
	}

	recommend.DailyTargets(p).Apply(&p)

	at := e.opts.now()
	err := e.mutate(func() error {
		e.profile = p
		// the profile weight is a measurement too, so the weekly review has a
		// baseline before the first check-in
		e.tracker.RecordWeight(at.Format(constants.DateFormat), p.Weight, at)
		return nil
	})
	logger.Debug("Profile updated", "goal", p.Goal, "calories", p.Calories)
	return p, err
}

// Profile returns the current profile
func (e *Engine) Profile() models.UserProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile
}

// AddDailyCheckIn stores the check-in for its day, replacing an earlier one
// for the same day, and records its weight
func (e *Engine) AddDailyCheckIn(in CheckIn) (models.DailyCheckIn, error) {
	day, err := e.resolveDay(in.Day)
	if err != nil {
		return models.DailyCheckIn{}, err
	}
	if !positive(in.Weight) {
		return models.DailyCheckIn{}, errors.InvalidInput("weight must be a positive number, got %v", in.Weight)
	}
	if in.Sleep != nil && (*in.Sleep < 1 || *in.Sleep > 5) {
		return models.DailyCheckIn{}, errors.InvalidInput("sleep rating must be between 1 and 5, got %d", *in.Sleep)
	}
	if in.Calories != nil && *in.Calories < 0 {
		return models.DailyCheckIn{}, errors.InvalidInput("calories must not be negative, got %d", *in.Calories)
	}

	c := models.DailyCheckIn{
		Day:        day,
		Weight:     in.Weight,
		ProteinHit: in.ProteinHit,
		Calories:   in.Calories,
		Sleep:      in.Sleep,
		CreatedAt:  e.opts.now(),
	}

	err = e.mutate(func() error {
		if e.tracker.AddCheckIn(c) {
			logger.Debug("Replaced check-in for day", "day", day)
		}
		e.recordWeightLocked(day, c.Weight, c.CreatedAt)
		return nil
	})
	return c, err
}

// UpdateWeight records today's body weight
func (e *Engine) UpdateWeight(weight float64) error {
	if !positive(weight) {
		return errors.InvalidInput("weight must be a positive number, got %v", weight)
	}
	at := e.opts.now()
	return e.mutate(func() error {
		e.recordWeightLocked(at.Format(constants.DateFormat), weight, at)
		return nil
	})
}

// recordWeightLocked adds the measurement to the weight history. The profile
// weight follows the most recent day; macros are recalculated
// for the new weight while the calorie target is kept.
func (e *Engine) recordWeightLocked(day string, weight float64, at time.Time) {
	e.tracker.RecordWeight(day, weight, at)

	history := e.tracker.WeightHistory()
	if history[len(history)-1].Day != day {
		return
	}
	e.profile.Weight = weight
	if e.profile.Calories > 0 {
		recommend.MacrosFor(e.profile.Calories, weight, e.profile.Goal).Apply(&e.profile)
	}
}

func (e *Engine) resolveDay(day string) (string, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return e.today(), nil
	}
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return "", errors.InvalidInput("invalid date %q, expected YYYY-MM-DD", day)
	}
	return day, nil
}

// GenerateWeeklyReview computes the review for the window ending today
// without changing anything
func (e *Engine) GenerateWeeklyReview() models.WeeklyReview {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reviewLocked()
}

func (e *Engine) reviewLocked() models.WeeklyReview {
	return recommend.GenerateWeeklyReview(recommend.ReviewInput{
		Now:           e.opts.now(),
		WindowDays:    e.opts.windowDays,
		Profile:       e.profile,
		CheckIns:      e.tracker.CheckIns(),
		WeightHistory: e.tracker.WeightHistory(),
		Sessions:      e.tracker.History(),
		BulkMirrored:  e.opts.bulkMirrored,
	})
}

// ApplyWeeklyReview generates the weekly review, moves the calorie target by
// its adjustment and keeps the review
func (e *Engine) ApplyWeeklyReview() (models.WeeklyReview, error) {
	var review models.WeeklyReview
	err := e.mutate(func() error {
		if e.profile.IsZero() || e.profile.Calories == 0 {
			return errors.InvalidTransition("set up a profile before running a review")
		}
		review = e.reviewLocked()
		recommend.MacrosFor(review.NewCalories, e.profile.Weight, e.profile.Goal).Apply(&e.profile)
		e.tracker.AddReview(review)
		logger.Info("Weekly review applied",
			"change", review.WeightChange,
			"adjustment", review.Adjustment,
			"calories", review.NewCalories)
		return nil
	})
	return review, err
}
