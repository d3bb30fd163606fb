package apisports

import (
	"strings"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/pool"
	"github.com/panelcentral/backoffice/internal/usecase"
)

// parseFixture flattens one vertical-specific response item into a Fixture.
// Football nests the id and date under "fixture"; the v1 verticals keep them
// at the top level; MMA uses "fighters" and Formula 1 has no opposing teams.
func parseFixture(sport string, item map[string]any) (usecase.Fixture, bool) {
	out := usecase.Fixture{Sport: sport}

	switch sport {
	case "football":
		fixture := subMap(item, "fixture")
		out.ID = getInt64(fixture, "id")
		out.KickoffAt = parseDate(getString(fixture, "date"))
		out.Status = normalizeStatus(sport, getString(subMap(fixture, "status"), "short"))

		teams := subMap(item, "teams")
		out.HomeTeam = getString(subMap(teams, "home"), "name")
		out.AwayTeam = getString(subMap(teams, "away"), "name")
		out.HomeLogo = getString(subMap(teams, "home"), "logo")
		out.AwayLogo = getString(subMap(teams, "away"), "logo")

		goals := subMap(item, "goals")
		out.HomeScore = getIntPtr(goals, "home")
		out.AwayScore = getIntPtr(goals, "away")

		league := subMap(item, "league")
		out.League = getString(league, "name")
		out.Country = getString(league, "country")

	case "mma":
		out.ID = getInt64(item, "id")
		out.KickoffAt = parseDate(getString(item, "date"))
		out.Status = normalizeStatus(sport, getString(subMap(item, "status"), "short"))

		fighters := subMap(item, "fighters")
		out.HomeTeam = getString(subMap(fighters, "first"), "name")
		out.AwayTeam = getString(subMap(fighters, "second"), "name")
		out.HomeLogo = getString(subMap(fighters, "first"), "logo")
		out.AwayLogo = getString(subMap(fighters, "second"), "logo")
		out.League = getString(subMap(item, "league"), "name")

	case "formula-1":
		out.ID = getInt64(item, "id")
		out.KickoffAt = parseDate(getString(item, "date"))
		out.Status = normalizeStatus(sport, getString(item, "status"))

		competition := subMap(item, "competition")
		out.HomeTeam = getString(competition, "name")
		if out.HomeTeam == "" {
			out.HomeTeam = getString(item, "type")
		}
		circuit := subMap(item, "circuit")
		out.AwayTeam = getString(circuit, "name")
		out.AwayLogo = getString(circuit, "image")
		out.League = "Formula 1"
		out.Country = getString(subMap(competition, "location"), "country")

	case "american-football":
		game := subMap(item, "game")
		out.ID = getInt64(game, "id")
		date := getString(game, "date")
		if nested := subMap(game, "date"); len(nested) > 0 {
			date = getString(nested, "date")
		}
		out.KickoffAt = parseDate(date)
		out.Status = normalizeStatus(sport, getString(subMap(game, "status"), "short"))

		teams := subMap(item, "teams")
		out.HomeTeam = getString(subMap(teams, "home"), "name")
		out.AwayTeam = getString(subMap(teams, "away"), "name")
		out.HomeLogo = getString(subMap(teams, "home"), "logo")
		out.AwayLogo = getString(subMap(teams, "away"), "logo")

		scores := subMap(item, "scores")
		out.HomeScore = getIntPtr(subMap(scores, "home"), "total")
		out.AwayScore = getIntPtr(subMap(scores, "away"), "total")

		league := subMap(item, "league")
		out.League = getString(league, "name")
		out.Country = getString(subMap(league, "country"), "name")

	default: // basketball, baseball
		out.ID = getInt64(item, "id")
		out.KickoffAt = parseDate(getString(item, "date"))
		out.Status = normalizeStatus(sport, getString(subMap(item, "status"), "short"))

		teams := subMap(item, "teams")
		out.HomeTeam = getString(subMap(teams, "home"), "name")
		out.AwayTeam = getString(subMap(teams, "away"), "name")
		out.HomeLogo = getString(subMap(teams, "home"), "logo")
		out.AwayLogo = getString(subMap(teams, "away"), "logo")

		scores := subMap(item, "scores")
		out.HomeScore = getIntPtr(subMap(scores, "home"), "total")
		out.AwayScore = getIntPtr(subMap(scores, "away"), "total")

		out.League = getString(subMap(item, "league"), "name")
		out.Country = getString(subMap(item, "country"), "name")
	}

	if out.ID <= 0 {
		return usecase.Fixture{}, false
	}
	return out, true
}

func parseScore(sport string, item map[string]any) usecase.MatchScore {
	out := usecase.MatchScore{Found: true}

	if sport == "football" || sport == "" {
		goals := subMap(item, "goals")
		out.HomeScore = getIntPtr(goals, "home")
		out.AwayScore = getIntPtr(goals, "away")
		out.Status = normalizeStatus("football", getString(subMap(subMap(item, "fixture"), "status"), "short"))
		return out
	}

	scores := subMap(item, "scores")
	out.HomeScore = getIntPtr(subMap(scores, "home"), "total")
	out.AwayScore = getIntPtr(subMap(scores, "away"), "total")
	out.Status = normalizeStatus(sport, getString(subMap(item, "status"), "short"))
	return out
}

// normalizeStatus maps the provider's short status codes onto match states.
// Football uses FT/AET/PEN for final and half/extra-time codes for live play;
// the other verticals use FT/AOT and quarter codes.
func normalizeStatus(sport, short string) pool.MatchStatus {
	short = strings.ToUpper(strings.TrimSpace(short))
	if sport == "football" {
		switch short {
		case "FT", "AET", "PEN":
			return pool.MatchStatusFinished
		case "1H", "2H", "HT", "ET", "LIVE":
			return pool.MatchStatusInProgress
		default:
			return pool.MatchStatusNotStarted
		}
	}
	switch short {
	case "FT", "AOT":
		return pool.MatchStatusFinished
	case "Q1", "Q2", "Q3", "Q4", "HT", "LIVE":
		return pool.MatchStatusInProgress
	default:
		return pool.MatchStatusNotStarted
	}
}

func subMap(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	value, ok := src[key].(map[string]any)
	if !ok {
		return nil
	}
	return value
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	value, ok := src[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	switch typed := src[key].(type) {
	case float64:
		return int64(typed)
	case int64:
		return typed
	case int:
		return int64(typed)
	default:
		return 0
	}
}

func getIntPtr(src map[string]any, key string) *int {
	if src == nil {
		return nil
	}
	switch typed := src[key].(type) {
	case float64:
		v := int(typed)
		return &v
	case int64:
		v := int(typed)
		return &v
	case int:
		v := typed
		return &v
	default:
		return nil
	}
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
