// Package extract implements the player/team extractor (C5): a batch
// scan of the match store producing the 37-column player table and the
// team table of §6.
//
// No direct teacher analogue exists for the schemas themselves (the
// teacher's reducer aggregates small fixed-key champion/item stats, not
// a full per-participant table); grounded instead on cmd/reducer/main.go's
// file-walking and per-file recovery discipline, generalized from
// scanning JSONL lines to walking a directory of per-match JSON
// documents (see DESIGN.md).
package extract

// PlayerRow is one row per (match, participant); 37 columns per §6.
//
// Per-minute columns (damage/gold/vision) and the other challenge-derived
// fields come straight from info.participants[i].challenges.* - present
// or absent, never recomputed from raw totals and game duration. That's
// §4.5's rule; a separate reading of P10 as a universal per-minute
// formula is resolved against it here (P10 does govern the team-level
// team_*_per_min columns in team.go, which are genuinely duration-derived).
//
// The team table's schema text in §6 is labelled "(35 columns)" but its
// own enumerated field list runs to 37 (it includes first_blood, which
// is not double-counted among the five named objectives' first-booleans).
// DESIGN.md records this as a resolved inconsistency: the enumerated
// list, not the prose count, is authoritative here.
type PlayerRow struct {
	MatchID      string `parquet:"match_id"`
	GameCreation int64  `parquet:"game_creation"`
	GameDuration int64  `parquet:"game_duration"`
	QueueID      int    `parquet:"queue_id"`
	GameVersion  string `parquet:"game_version"`
	TeamID       int    `parquet:"team_id"`
	PUUID        string `parquet:"puuid"`
	ChampionID   int    `parquet:"champion_id"`
	ChampionName string `parquet:"champion_name"`
	Role         string `parquet:"role"`
	Win          bool   `parquet:"win"`

	Kills      int `parquet:"kills"`
	Deaths     int `parquet:"deaths"`
	Assists    int `parquet:"assists"`
	ChampLevel int `parquet:"champ_level"`

	GoldEarned           int `parquet:"gold_earned"`
	GoldSpent            int `parquet:"gold_spent"`
	TotalMinionsKilled   int `parquet:"total_minions_killed"`
	NeutralMinionsKilled int `parquet:"neutral_minions_killed"`
	TotalCS              int `parquet:"total_cs"`

	DamageToChampions  int `parquet:"damage_to_champions"`
	DamageToObjectives int `parquet:"damage_to_objectives"`
	DamageToTurrets    int `parquet:"damage_to_turrets"`
	TurretTakedowns    int `parquet:"turret_takedowns"`
	InhibitorTakedowns int `parquet:"inhibitor_takedowns"`

	VisionScore        int `parquet:"vision_score"`
	WardsPlaced        int `parquet:"wards_placed"`
	WardsKilled        int `parquet:"wards_killed"`
	ControlWardsPlaced int `parquet:"control_wards_placed"`

	DamagePerMin         *float64 `parquet:"damage_per_min,optional"`
	GoldPerMin           *float64 `parquet:"gold_per_min,optional"`
	TeamDamagePercentage *float64 `parquet:"team_damage_percentage,optional"`
	KillParticipation    *float64 `parquet:"kill_participation,optional"`
	KDA                  *float64 `parquet:"kda,optional"`
	VisionScorePerMin    *float64 `parquet:"vision_score_per_min,optional"`
	LaneMinionsFirst10   *float64 `parquet:"lane_minions_first10,optional"`
	JungleCsBefore10     *float64 `parquet:"jungle_cs_before10,optional"`
}

// TeamRow is one row per (match, team). See PlayerRow's doc comment for
// the column-count note.
type TeamRow struct {
	MatchID      string  `parquet:"match_id"`
	PlatformID   *string `parquet:"platform_id,optional"`
	QueueID      int     `parquet:"queue_id"`
	GameVersion  string  `parquet:"game_version"`
	GameCreation int64   `parquet:"game_creation"`
	GameDuration int64   `parquet:"game_duration"`
	TeamID       int     `parquet:"team_id"`
	TeamSide     string  `parquet:"team_side"`
	TeamWin      bool    `parquet:"team_win"`

	TopChampionID     *int `parquet:"top_champion_id,optional"`
	JungleChampionID  *int `parquet:"jungle_champion_id,optional"`
	MiddleChampionID  *int `parquet:"middle_champion_id,optional"`
	BottomChampionID  *int `parquet:"bottom_champion_id,optional"`
	UtilityChampionID *int `parquet:"utility_champion_id,optional"`

	TeamKills             int `parquet:"team_kills"`
	TeamDeaths            int `parquet:"team_deaths"`
	TeamAssists           int `parquet:"team_assists"`
	TeamGoldEarned        int `parquet:"team_gold_earned"`
	TeamDamageToChampions int `parquet:"team_damage_to_champions"`
	TeamVisionScore       int `parquet:"team_vision_score"`
	TeamCSTotal           int `parquet:"team_cs_total"`

	TeamGoldPerMin        *float64 `parquet:"team_gold_per_min,optional"`
	TeamDamagePerMin      *float64 `parquet:"team_damage_per_min,optional"`
	TeamVisionScorePerMin *float64 `parquet:"team_vision_score_per_min,optional"`
	TeamCSPerMin          *float64 `parquet:"team_cs_per_min,optional"`

	TeamTowersDestroyed     int `parquet:"team_towers_destroyed"`
	TeamInhibitorsDestroyed int `parquet:"team_inhibitors_destroyed"`
	TeamDragons             int `parquet:"team_dragons"`
	TeamBarons              int `parquet:"team_barons"`
	TeamHeralds             int  `parquet:"team_heralds"`
	TeamPlates              *int `parquet:"team_plates,optional"`

	FirstBlood     *bool `parquet:"first_blood,optional"`
	FirstTower     *bool `parquet:"first_tower,optional"`
	FirstInhibitor *bool `parquet:"first_inhibitor,optional"`
	FirstBaron     *bool `parquet:"first_baron,optional"`
	FirstDragon    *bool `parquet:"first_dragon,optional"`
	FirstHerald    *bool `parquet:"first_herald,optional"`
}

// CanonicalRoles enumerates the five roles the profile and outcome
// builders key on.
var CanonicalRoles = []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY"}
