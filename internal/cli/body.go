package cli

import (
	"fmt"

	"github.com/julianstephens/liftlog/internal/engine"
	"github.com/julianstephens/liftlog/internal/models"
)

type CheckinCmd struct {
	Weight   float64 `required:"" help:"Body weight in kg."`
	Protein  bool    `help:"Hit the protein target today."`
	Calories int     `default:"-1" help:"Calories eaten (omit if not tracked)."`
	Sleep    int     `help:"Sleep quality from 1 to 5 (omit if not tracked)."`
	Date     string  `help:"Day of the check-in (YYYY-MM-DD). Defaults to today."`
}

func (c *CheckinCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	in := engine.CheckIn{
		Day:        c.Date,
		Weight:     c.Weight,
		ProteinHit: c.Protein,
	}
	if c.Calories >= 0 {
		calories := c.Calories
		in.Calories = &calories
	}
	if c.Sleep != 0 {
		sleep := c.Sleep
		in.Sleep = &sleep
	}

	checkIn, err := e.AddDailyCheckIn(in)
	if err != nil {
		return err
	}

	ctx.printf("✓ Checked in for %s: %s", checkIn.Day, formatKg(checkIn.Weight))
	if checkIn.ProteinHit {
		ctx.printf(", protein hit")
	}
	if checkIn.Calories != nil {
		ctx.printf(", %d kcal", *checkIn.Calories)
	}
	if checkIn.Sleep != nil {
		ctx.printf(", sleep %d/5", *checkIn.Sleep)
	}
	ctx.println()
	return nil
}

type WeightCmd struct {
	Weight float64 `arg:"" help:"Body weight in kg."`
}

func (c *WeightCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	if err := e.UpdateWeight(c.Weight); err != nil {
		return err
	}

	ctx.printf("✓ Weight recorded: %s\n", formatKg(c.Weight))
	if p := e.Profile(); p.Calories > 0 {
		ctx.println(mutedStyle.Render(fmt.Sprintf("  Macros now %d g protein, %d g fat, %d g carbs", p.ProteinG, p.FatG, p.CarbsG)))
	}
	return nil
}

type ReviewCmd struct {
	Apply bool `help:"Apply the calorie adjustment to the profile."`
}

func (c *ReviewCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	var review models.WeeklyReview
	if c.Apply {
		ctx.PerformAutomaticBackup()
		if review, err = e.ApplyWeeklyReview(); err != nil {
			return err
		}
	} else {
		review = e.GenerateWeeklyReview()
	}

	printReview(ctx, review)
	if c.Apply {
		ctx.println(okStyle.Render(fmt.Sprintf("✓ Calorie target set to %d kcal", review.NewCalories)))
	} else if review.Adjustment != 0 {
		ctx.println(mutedStyle.Render("Run 'liftlog review --apply' to use the new target."))
	}
	return nil
}

func printReview(ctx *Context, r models.WeeklyReview) {
	ctx.println(headerStyle.Render(fmt.Sprintf("Weekly review %s to %s", r.WindowStart, r.WindowEnd)))
	if r.HasWeightChange {
		ctx.printf("  Weight change:  %+.1f kg\n", r.WeightChange)
	} else {
		ctx.println("  Weight change:  not enough data")
	}
	ctx.printf("  Workouts:       %d (avg volume %.0f kg)\n", r.Sessions, r.AvgSessionVolume)
	ctx.printf("  Check-ins:      %d, protein hit %.0f%%\n", r.CheckIns, r.ProteinHitRate*100)

	adjustment := fmt.Sprintf("%+d kcal", r.Adjustment)
	if r.Adjustment == 0 {
		adjustment = "none"
	} else {
		adjustment = warnStyle.Render(adjustment)
	}
	ctx.printf("  Adjustment:     %s (%s)\n", adjustment, r.Reason)
	ctx.printf("  Calories:       %d -> %d kcal\n", r.PreviousCalories, r.NewCalories)
}
