// Package match resolves reservation drafts against a user's configured
// rental units. Matching is a pure function of (drafts, units): it has no
// side effects and may be re-run whenever either input changes, for example
// when units finish loading after the file was parsed.
//
// Two strategies exist. Identifier matching compares a draft's free-text
// room label against each unit's configured booking identifier. The
// platform-filter strategy applies when the import flow is already bound to
// a single target unit and no identifier is available: the unit's platform
// affinity decides which drafts it accepts.
package match

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/hostfolio/hostfolio/pkg/reservations"
)

// Strategy identifies how a draft was resolved to a unit.
type Strategy string

// Matching strategies.
const (
	// StrategyIdentifier is an exact, case- and whitespace-insensitive
	// equality between room label and booking identifier.
	StrategyIdentifier Strategy = "identifier"
	// StrategyPlatformFilter accepts drafts into a single target unit
	// based on the unit's platform affinity.
	StrategyPlatformFilter Strategy = "platform-filter"
	// StrategyNone marks a draft that no strategy could resolve.
	StrategyNone Strategy = "none"
)

// Result annotates one draft with its match outcome. A draft has at most
// one match; ties between units sharing an identifier resolve to the first
// unit in configuration order.
type Result struct {
	Draft    reservations.Draft
	UnitID   string // Resolved unit, empty when unmatched
	Strategy Strategy
	Reason   string // Human-readable explanation for unmatched drafts
}

// Matched reports whether the draft resolved to a unit.
func (r Result) Matched() bool {
	return r.UnitID != ""
}

// Units annotates each draft against the unit set for the selected scope.
// When at least one unit declares a booking identifier the identifier
// strategy is used; otherwise every draft is reported unmatched, since
// nothing ties a row to a specific unit in a multi-unit scope.
func Units(drafts []reservations.Draft, units []reservations.Unit) []Result {
	identified := identifiableUnits(units)

	results := make([]Result, 0, len(drafts))
	for _, draft := range drafts {
		if len(identified) == 0 {
			results = append(results, Result{
				Draft:    draft,
				Strategy: StrategyNone,
				Reason:   "no unit declares a booking identifier",
			})
			continue
		}
		results = append(results, matchByIdentifier(draft, identified))
	}
	return results
}

// Unit annotates each draft against a single target unit using the
// platform-filter strategy. Drafts failing the unit's platform affinity are
// reported as filtered out, not dropped.
func Unit(drafts []reservations.Draft, unit reservations.Unit) []Result {
	results := make([]Result, 0, len(drafts))
	for _, draft := range drafts {
		if unit.Platform.Accepts(draft.Platform) {
			results = append(results, Result{
				Draft:    draft,
				UnitID:   unit.ID,
				Strategy: StrategyPlatformFilter,
			})
			continue
		}
		results = append(results, Result{
			Draft:    draft,
			Strategy: StrategyNone,
			Reason: fmt.Sprintf("platform %q filtered by unit affinity %q",
				draft.Platform, unit.Platform),
		})
	}
	return results
}

// Matched returns only the results that resolved to a unit.
func Matched(results []Result) []Result {
	matched := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Matched() {
			matched = append(matched, r)
		}
	}
	return matched
}

// Counts returns the number of matched and unmatched results.
func Counts(results []Result) (matched, unmatched int) {
	for _, r := range results {
		if r.Matched() {
			matched++
		} else {
			unmatched++
		}
	}
	return matched, unmatched
}

// identifiableUnits filters units to those carrying an identifier,
// preserving configuration order.
func identifiableUnits(units []reservations.Unit) []reservations.Unit {
	out := make([]reservations.Unit, 0, len(units))
	for _, u := range units {
		if u.HasIdentifier() {
			out = append(out, u)
		}
	}
	return out
}

func matchByIdentifier(draft reservations.Draft, units []reservations.Unit) Result {
	label := foldLabel(draft.RoomLabel)
	if label == "" {
		return Result{
			Draft:    draft,
			Strategy: StrategyNone,
			Reason:   "row has no room label",
		}
	}

	for _, unit := range units {
		if foldLabel(unit.BookingIdentifier) == label {
			return Result{
				Draft:    draft,
				UnitID:   unit.ID,
				Strategy: StrategyIdentifier,
			}
		}
	}
	return Result{
		Draft:    draft,
		Strategy: StrategyNone,
		Reason:   fmt.Sprintf("room label %q matches no unit identifier", draft.RoomLabel),
	}
}

// foldLabel normalizes a label for comparison: surrounding whitespace is
// trimmed and the result is case-folded.
func foldLabel(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
