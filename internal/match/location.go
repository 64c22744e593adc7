package match

import (
	"strings"

	"talentrank/internal/types"
)

// scoreLocation matches candidate location against the preference: direct
// substring hit, remote-friendly preference, then regional lookup. The
// local region counts as exact since relocation inside it is easy.
func (e *Engine) scoreLocation(candidateLocation, preferredLocation string) types.LocationScore {
	if strings.TrimSpace(preferredLocation) == "" {
		return types.LocationScore{Score: 100, MatchType: "any"}
	}

	candLower := lower(candidateLocation)
	prefLower := lower(preferredLocation)

	if strings.Contains(candLower, prefLower) || strings.Contains(prefLower, candLower) {
		return types.LocationScore{Score: 100, MatchType: "exact"}
	}

	if containsString(e.tables.RemotePreferences, prefLower) {
		return types.LocationScore{Score: 100, MatchType: "remote_ok"}
	}

	candRegion := e.tables.regionOf(candLower)
	prefRegion := e.tables.regionOf(prefLower)

	if candRegion != "" && candRegion == prefRegion {
		if candRegion == e.tables.LocalRegion {
			return types.LocationScore{Score: 100, MatchType: "same_country"}
		}
		return types.LocationScore{Score: 75, MatchType: "regional"}
	}

	return types.LocationScore{Score: 40, MatchType: "relocation_needed"}
}
