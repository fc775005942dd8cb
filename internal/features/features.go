// Package features assembles the feature vector consumed by the probability
// model. The column order is a strict contract shared with the trained
// model: any reordering silently corrupts predictions without raising an
// error, so Columns is the single source of order and no call site may
// hand-construct a vector.
package features

import (
	"fmt"

	"github.com/yourusername/puckline/internal/alias"
	"github.com/yourusername/puckline/internal/form"
	"github.com/yourusername/puckline/internal/models"
)

// Vector is one ordered feature row plus its column names.
type Vector struct {
	Columns []string
	Values  []float64
}

// Columns generates the model's column order for the given windows: per
// window, home form metrics then away form metrics, followed by the two
// numeric team ids.
func Columns(windows []int) []string {
	cols := make([]string, 0, len(windows)*6+2)
	for _, w := range windows {
		cols = append(cols,
			fmt.Sprintf("home_form_goals_for_w%d", w),
			fmt.Sprintf("home_form_goals_against_w%d", w),
			fmt.Sprintf("home_form_win_rate_w%d", w),
			fmt.Sprintf("away_form_goals_for_w%d", w),
			fmt.Sprintf("away_form_goals_against_w%d", w),
			fmt.Sprintf("away_form_win_rate_w%d", w),
		)
	}
	return append(cols, "home_team_id", "away_team_id")
}

// Builder turns two teams' recent games into a model-ready vector.
type Builder struct {
	resolver *alias.Resolver
	windows  []int
}

// NewBuilder creates a feature builder for the given windows; nil windows
// means form.DefaultWindows.
func NewBuilder(resolver *alias.Resolver, windows []int) *Builder {
	if len(windows) == 0 {
		windows = form.DefaultWindows
	}
	return &Builder{resolver: resolver, windows: windows}
}

// Windows returns the lookback windows the builder was configured with.
func (b *Builder) Windows() []int {
	return b.windows
}

// Build computes form for both sides and lays the result out in the model's
// column order. Game lists must already contain only completed games that
// precede the matchup being predicted. A team-id resolution failure is fatal
// for the matchup; there is no sentinel substitute.
func (b *Builder) Build(homeAbbr, awayAbbr string, homeGames, awayGames []models.Game) (Vector, error) {
	homeID, err := b.resolver.TeamID(homeAbbr)
	if err != nil {
		return Vector{}, fmt.Errorf("home team id: %w", err)
	}
	awayID, err := b.resolver.TeamID(awayAbbr)
	if err != nil {
		return Vector{}, fmt.Errorf("away team id: %w", err)
	}

	homeForm := form.Compute(homeAbbr, homeGames, b.windows)
	awayForm := form.Compute(awayAbbr, awayGames, b.windows)

	values := make([]float64, 0, len(b.windows)*6+2)
	for _, w := range b.windows {
		hf, af := homeForm[w], awayForm[w]
		values = append(values,
			hf.GoalsForAvg, hf.GoalsAgainstAvg, hf.WinRate,
			af.GoalsForAvg, af.GoalsAgainstAvg, af.WinRate,
		)
	}
	values = append(values, float64(homeID), float64(awayID))

	return Vector{Columns: Columns(b.windows), Values: values}, nil
}
