package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/liftlog/internal/models"
)

type ProfileCmd struct {
	Set  ProfileSetCmd  `cmd:"" help:"Create or update the profile."`
	Show ProfileShowCmd `cmd:"" help:"Show the profile and daily targets."`
}

// ProfileSetCmd merges the given flags into the stored profile. Zero values
// leave the stored field unchanged.
type ProfileSetCmd struct {
	Name         string  `help:"Display name."`
	Weight       float64 `help:"Body weight in kg."`
	Height       float64 `help:"Height in cm."`
	Age          int     `help:"Age in years."`
	Gender       string  `help:"male or female."`
	Goal         string  `help:"cut, bulk or maintain."`
	Activity     string  `help:"sedentary, light, moderate, active or very_active."`
	TrainingDays int     `help:"Training days per week."`
	TargetWeight float64 `help:"Target body weight in kg."`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	p := e.Profile()
	if c.Name != "" {
		p.Name = c.Name
	}
	if c.Weight != 0 {
		p.Weight = c.Weight
	}
	if c.Height != 0 {
		p.Height = c.Height
	}
	if c.Age != 0 {
		p.Age = c.Age
	}
	if c.Gender != "" {
		g := models.Gender(strings.ToLower(c.Gender))
		if g != models.GenderMale && g != models.GenderFemale {
			return fmt.Errorf("invalid gender %q (expected male or female)", c.Gender)
		}
		p.Gender = g
	}
	if c.Goal != "" {
		p.Goal = models.Goal(strings.ToLower(c.Goal))
	}
	if c.Activity != "" {
		p.ActivityLevel = models.ActivityLevel(strings.ToLower(c.Activity))
	}
	if c.TrainingDays != 0 {
		p.TrainingDays = c.TrainingDays
	}
	if c.TargetWeight != 0 {
		p.TargetWeight = c.TargetWeight
	}
	if p.ActivityLevel == "" {
		p.ActivityLevel = models.ActivityModerate
	}
	if p.Gender == "" {
		p.Gender = models.GenderMale
	}

	updated, err := e.UpdateProfile(p)
	if err != nil {
		return err
	}

	ctx.println(okStyle.Render("✓ Profile updated"))
	printProfile(ctx, updated)
	return nil
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}

	p := e.Profile()
	if p.IsZero() {
		ctx.println("No profile yet. Create one with 'liftlog profile set'.")
		return nil
	}
	printProfile(ctx, p)
	return nil
}

func printProfile(ctx *Context, p models.UserProfile) {
	if p.Name != "" {
		ctx.println(headerStyle.Render(p.Name))
	}
	ctx.printf("  Body:      %s, %.0f cm, %d y, %s\n", formatKg(p.Weight), p.Height, p.Age, p.Gender)
	ctx.printf("  Goal:      %s", p.Goal)
	if p.TargetWeight > 0 {
		ctx.printf(" (target %s)", formatKg(p.TargetWeight))
	}
	ctx.println()
	ctx.printf("  Activity:  %s, %d training days/week\n", p.ActivityLevel, p.TrainingDays)
	ctx.println()
	ctx.println(headerStyle.Render("Daily targets"))
	ctx.printf("  Calories:  %d kcal\n", p.Calories)
	ctx.printf("  Protein:   %d g\n", p.ProteinG)
	ctx.printf("  Fat:       %d g\n", p.FatG)
	ctx.printf("  Carbs:     %d g\n", p.CarbsG)
}
