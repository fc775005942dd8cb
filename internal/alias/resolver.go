// Package alias maps team-name spellings and abbreviation variants from the
// schedule provider, the odds provider and historical data to one canonical
// code. The canonical code is the abbreviation used at model training time;
// Display gives the inverse mapping for user-facing output when a franchise
// has since been renamed.
package alias

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/puckline/internal/models"
)

// Team is one resolvable franchise exposed through the API.
type Team struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	ID           int    `json:"id"`
}

// Resolver resolves team names and abbreviations to canonical codes and
// numeric training ids. The zero value is not usable; construct with New.
type Resolver struct {
	byAbbr map[string]team
	byName map[string]string
}

// New builds a resolver over the embedded team table.
func New() *Resolver {
	r := &Resolver{
		byAbbr: make(map[string]team, len(teamTable)),
		byName: make(map[string]string, len(teamTable)+len(nameAliases)),
	}
	for _, t := range teamTable {
		r.byAbbr[t.Abbr] = t
		r.byName[normalizeName(t.Name)] = t.Abbr
	}
	for name, abbr := range nameAliases {
		r.byName[name] = abbr
	}
	return r
}

// Canonical resolves a free-text team name or abbreviation variant to the
// training-time code. Unresolvable input returns models.ErrUnknownTeam;
// callers must not substitute a default team.
func (r *Resolver) Canonical(nameOrAbbr string) (string, error) {
	trimmed := strings.TrimSpace(nameOrAbbr)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty team name", models.ErrUnknownTeam)
	}

	upper := strings.ToUpper(trimmed)
	if mapped, ok := canonicalMap[upper]; ok {
		return mapped, nil
	}
	if _, ok := r.byAbbr[upper]; ok {
		return upper, nil
	}
	if abbr, ok := r.byName[normalizeName(trimmed)]; ok {
		return abbr, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownTeam, nameOrAbbr)
}

// Display returns the user-facing code for a canonical code. Unknown codes
// pass through uppercased.
func (r *Resolver) Display(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if mapped, ok := displayMap[upper]; ok {
		return mapped
	}
	return upper
}

// TeamID returns the numeric training id for a name or abbreviation. A
// resolution failure is fatal for the matchup being processed: a wrong id
// corrupts the feature vector without any visible symptom.
func (r *Resolver) TeamID(nameOrAbbr string) (int, error) {
	abbr, err := r.Canonical(nameOrAbbr)
	if err != nil {
		return 0, err
	}
	t, ok := r.byAbbr[abbr]
	if !ok {
		return 0, fmt.Errorf("%w: %s", models.ErrMissingTeamID, abbr)
	}
	return t.ID, nil
}

// Teams returns all resolvable teams sorted by abbreviation.
func (r *Resolver) Teams() []Team {
	teams := make([]Team, 0, len(r.byAbbr))
	for _, t := range r.byAbbr {
		teams = append(teams, Team{Abbreviation: t.Abbr, Name: t.Name, ID: t.ID})
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].Abbreviation < teams[j].Abbreviation
	})
	return teams
}

// normalizeName lowercases, strips punctuation and collapses whitespace so
// provider spellings like "St. Louis  Blues" match the table entry.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
