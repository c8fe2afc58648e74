package riotapi

import "strings"

// TierOrder ranks the solo-queue tier ladder from lowest (IRON) to
// highest (CHALLENGER). Apex tiers (MASTER, GRANDMASTER, CHALLENGER) have
// no division.
var TierOrder = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

// DivisionOrder ranks divisions within a non-apex tier; IV is the lowest,
// I the highest.
var DivisionOrder = map[string]int{
	"IV":  0,
	"III": 1,
	"II":  2,
	"I":   3,
}

var apexTiers = map[string]bool{
	"MASTER":      true,
	"GRANDMASTER": true,
	"CHALLENGER":  true,
}

// IsEmerald4OrHigher reports whether tier/division is at or above Emerald
// IV on the solo-queue ladder. Neither this nor AllowedByTier is called
// by the crawler, whose rank filter looks the tier up directly in its
// configured allow-list.
func IsEmerald4OrHigher(tier, division string) bool {
	return meetsFloor(tier, division, "EMERALD", "IV")
}

func meetsFloor(tier, division, floorTier, floorDivision string) bool {
	tier = strings.ToUpper(tier)
	tierRank, ok := TierOrder[tier]
	if !ok {
		return false
	}
	floorRank := TierOrder[floorTier]
	if tierRank > floorRank {
		return true
	}
	if tierRank < floorRank {
		return false
	}
	if apexTiers[tier] {
		return true
	}
	divRank, ok := DivisionOrder[strings.ToUpper(division)]
	if !ok {
		return false
	}
	return divRank >= DivisionOrder[floorDivision]
}

// AllowedByTier reports whether tier is present in allowList (a
// case-insensitive set of tier names). Per §4.4 step 2, an absent tier
// (empty string) always passes the filter regardless of allowList.
func AllowedByTier(tier string, allowList map[string]bool) bool {
	if tier == "" {
		return true
	}
	if len(allowList) == 0 {
		return true
	}
	return allowList[strings.ToUpper(tier)]
}
