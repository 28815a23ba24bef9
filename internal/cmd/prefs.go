package cmd

import (
	"fmt"
	"strings"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/prefs"
)

type PrefsCmd struct {
	Show PrefsShowCmd `cmd:"" default:"withargs" help:"Print the effective matching preferences."`
	Set  PrefsSetCmd  `cmd:"" help:"Update and save matching preferences."`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	preferences, saved, err := prefs.New(session).Load()
	if err != nil {
		return err
	}

	if !saved {
		ctx.UI.Warnf("preferences not saved yet; showing defaults")
	}
	fmt.Fprintf(ctx.Out, "role keywords:  %s\n", orDash(preferences.RoleKeywords))
	fmt.Fprintf(ctx.Out, "locations:      %s\n", orDash(strings.Join(preferences.PreferredLocations, ", ")))
	fmt.Fprintf(ctx.Out, "modes:          %s\n", orDash(joinModes(preferences.PreferredModes)))
	fmt.Fprintf(ctx.Out, "experience:     %s\n", orDash(string(preferences.ExperienceLevel)))
	fmt.Fprintf(ctx.Out, "skills:         %s\n", orDash(preferences.Skills))
	fmt.Fprintf(ctx.Out, "min match score: %d\n", preferences.MinMatchScore)
	return nil
}

type PrefsSetCmd struct {
	Roles      *string `help:"Comma-separated role keywords."`
	Locations  *string `help:"Comma-separated preferred locations."`
	Modes      *string `help:"Comma-separated work modes (Remote, Hybrid, Onsite)."`
	Experience *string `help:"Experience band (Fresher, 0-1, 1-3, 3-5); empty clears the constraint."`
	Skills     *string `help:"Comma-separated skills."`
	MinScore   *int    `help:"Minimum match score for digest and --match-only (0-100)."`
}

func (c *PrefsSetCmd) Run(ctx *Context) error {
	if c.Roles == nil && c.Locations == nil && c.Modes == nil &&
		c.Experience == nil && c.Skills == nil && c.MinScore == nil {
		return fmt.Errorf("nothing to set; pass at least one of --roles, --locations, --modes, --experience, --skills, --min-score")
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}
	store := prefs.New(session)

	preferences, _, err := store.Load()
	if err != nil {
		return err
	}

	if c.Roles != nil {
		preferences.RoleKeywords = strings.TrimSpace(*c.Roles)
	}
	if c.Locations != nil {
		preferences.PreferredLocations = splitList(*c.Locations)
	}
	if c.Modes != nil {
		modes, err := parseModes(*c.Modes)
		if err != nil {
			return err
		}
		preferences.PreferredModes = modes
	}
	if c.Experience != nil {
		value := strings.TrimSpace(*c.Experience)
		if value == "" {
			preferences.ExperienceLevel = ""
		} else {
			experience, ok := models.ParseExperience(value)
			if !ok {
				return fmt.Errorf("unknown experience %q, want one of: Fresher, 0-1, 1-3, 3-5", value)
			}
			preferences.ExperienceLevel = experience
		}
	}
	if c.Skills != nil {
		preferences.Skills = strings.TrimSpace(*c.Skills)
	}
	if c.MinScore != nil {
		if *c.MinScore < 0 || *c.MinScore > 100 {
			return fmt.Errorf("min score %d out of range 0-100", *c.MinScore)
		}
		preferences.MinMatchScore = *c.MinScore
	}

	if err := store.Save(preferences); err != nil {
		return err
	}
	ctx.UI.Successf("preferences saved")
	return nil
}

func parseModes(raw string) ([]models.Mode, error) {
	parts := splitList(raw)
	modes := make([]models.Mode, 0, len(parts))
	for _, part := range parts {
		mode, ok := models.ParseMode(part)
		if !ok {
			return nil, fmt.Errorf("unknown mode %q, want one of: Remote, Hybrid, Onsite", part)
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func joinModes(modes []models.Mode) string {
	parts := make([]string, len(modes))
	for i, mode := range modes {
		parts[i] = string(mode)
	}
	return strings.Join(parts, ", ")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
