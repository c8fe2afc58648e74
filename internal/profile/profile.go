// Package profile implements the player-profile table builder (C6): a
// windowed, per-(puuid, role) rolling aggregate over the player table,
// including each game's lane-opponent differential.
//
// Grounded on original_source/src/player_profile.rs's build_player_profiles:
// same lane-opponent self-join via the flipped team id, same dense-rank-by
// recency windowing, same aggregation list. No teacher analogue exists
// (the teacher never aggregates a rolling per-player window); the shape
// is translated from the Polars lazyframe pipeline into plain Go slices
// and maps, since no teacher or pack dependency offers a dataframe API.
package profile

import (
	"sort"

	"github.com/arnauet/riot-go-kraken/internal/columns"
	"github.com/arnauet/riot-go-kraken/internal/extract"
)

// ProfileRow is one row per (puuid, role) summarising that player's most
// recent games in that role, per §6.
type ProfileRow struct {
	PUUID             string  `parquet:"puuid"`
	Role              string  `parquet:"role"`
	GamesAvailable    int     `parquet:"games_available"`
	GamesUsed         int     `parquet:"games_used"`
	MainChampionName  string  `parquet:"main_champion_name"`
	WinRate           float64 `parquet:"win_rate"`
	AvgKills          float64 `parquet:"avg_kills"`
	AvgDeaths         float64 `parquet:"avg_deaths"`
	AvgAssists        float64 `parquet:"avg_assists"`
	AvgKDA            float64 `parquet:"avg_kda"`
	AvgGoldEarned     float64 `parquet:"avg_gold_earned"`
	AvgGoldPerMin     float64 `parquet:"avg_gold_per_min"`
	AvgDamageToChamps float64 `parquet:"avg_damage_to_champions"`
	AvgDamagePerMin   float64 `parquet:"avg_damage_per_min"`
	AvgTotalCS        float64 `parquet:"avg_total_cs"`
	AvgCS10           float64 `parquet:"avg_cs10"`
	AvgVisionScore    float64 `parquet:"avg_vision_score"`
	AvgVisionPerMin   float64 `parquet:"avg_vision_score_per_min"`
	AvgTurretTakedown float64 `parquet:"avg_turret_takedowns"`
	AvgInhibTakedown  float64 `parquet:"avg_inhibitor_takedowns"`

	AvgGoldDiffVsLane     *float64 `parquet:"avg_gold_diff_vs_lane,optional"`
	AvgCsDiffVsLane       *float64 `parquet:"avg_cs_diff_vs_lane,optional"`
	AvgVisionDiffVsLane   *float64 `parquet:"avg_vision_diff_vs_lane,optional"`
	AvgEarlyGoldXPAdv     *float64 `parquet:"avg_early_gold_xp_adv,optional"`
	AvgLaningGoldXPAdv    *float64 `parquet:"avg_laning_gold_xp_adv,optional"`
	AvgMaxCsAdvLane       *float64 `parquet:"avg_max_cs_adv_lane,optional"`
	AvgVisionScoreAdvLane *float64 `parquet:"avg_vision_score_adv_lane,optional"`
}

type enrichedRow struct {
	row              extract.PlayerRow
	goldDiffVsLane   *float64
	csDiffVsLane     *float64
	visionDiffVsLane *float64
}

const (
	queueIDRankedSolo = 420
	enemyTeamTotal    = 300
)

// Build computes the profile table from players, keeping at most
// historySize of each (puuid, role)'s most recent games (dense-ranked by
// distinct game_creation, descending) and dropping groups with fewer than
// minMatches games in that window.
func Build(players []extract.PlayerRow, historySize, minMatches int) []ProfileRow {
	eligible := filterEligible(players)
	enriched := withLaneOpponents(eligible)

	groups := map[string][]enrichedRow{}
	for _, e := range enriched {
		key := e.row.PUUID + "\x00" + e.row.Role
		groups[key] = append(groups[key], e)
	}

	var out []ProfileRow
	for _, rows := range groups {
		gamesAvailable := len(rows)
		windowed := topByRecency(rows, historySize)
		gamesUsed := len(windowed)
		if gamesUsed < minMatches {
			continue
		}
		out = append(out, aggregate(windowed, gamesAvailable, gamesUsed))
	}
	return out
}

func filterEligible(players []extract.PlayerRow) []extract.PlayerRow {
	var out []extract.PlayerRow
	for _, p := range players {
		if p.QueueID != queueIDRankedSolo {
			continue
		}
		if !isCanonicalRole(p.Role) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isCanonicalRole(role string) bool {
	for _, r := range extract.CanonicalRoles {
		if r == role {
			return true
		}
	}
	return false
}

// withLaneOpponents finds, for each row, the opposing team's participant
// in the same match and role, and computes the three diff columns.
func withLaneOpponents(rows []extract.PlayerRow) []enrichedRow {
	type laneKey struct {
		matchID string
		role    string
		teamID  int
	}
	byLane := make(map[laneKey]extract.PlayerRow, len(rows))
	for _, r := range rows {
		byLane[laneKey{r.MatchID, r.Role, r.TeamID}] = r
	}

	out := make([]enrichedRow, 0, len(rows))
	for _, r := range rows {
		e := enrichedRow{row: r}
		oppTeam := enemyTeamTotal - r.TeamID
		if opp, ok := byLane[laneKey{r.MatchID, r.Role, oppTeam}]; ok {
			gd := float64(r.GoldEarned - opp.GoldEarned)
			cd := float64(r.TotalCS - opp.TotalCS)
			vd := float64(r.VisionScore - opp.VisionScore)
			e.goldDiffVsLane = &gd
			e.csDiffVsLane = &cd
			e.visionDiffVsLane = &vd
		}
		out = append(out, e)
	}
	return out
}

// topByRecency keeps rows whose dense rank (by distinct game_creation,
// descending) is <= historySize.
func topByRecency(rows []enrichedRow, historySize int) []enrichedRow {
	creations := map[int64]bool{}
	for _, r := range rows {
		creations[r.row.GameCreation] = true
	}
	distinct := make([]int64, 0, len(creations))
	for c := range creations {
		distinct = append(distinct, c)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] > distinct[j] })

	rank := map[int64]int{}
	for i, c := range distinct {
		rank[c] = i + 1
	}

	var out []enrichedRow
	for _, r := range rows {
		if rank[r.row.GameCreation] <= historySize {
			out = append(out, r)
		}
	}
	return out
}

func aggregate(rows []enrichedRow, gamesAvailable, gamesUsed int) ProfileRow {
	n := float64(len(rows))
	out := ProfileRow{
		PUUID:          rows[0].row.PUUID,
		Role:           rows[0].row.Role,
		GamesAvailable: gamesAvailable,
		GamesUsed:      gamesUsed,
	}
	if n == 0 {
		return out
	}
	out.MainChampionName = rows[0].row.ChampionName

	var wins, kills, deaths, assists, kda, gold, dmg float64
	var cs, vision, turretTD, inhibTD float64
	var goldPerMins, dmgPerMins, cs10s, visionPerMins []float64
	var goldDiffs, csDiffs, visionDiffs []float64
	// The four upstream advantage columns (early/laning gold-xp advantage,
	// max cs advantage, vision advantage) aren't carried on PlayerRow, so
	// these stay permanently empty and MeanOptional returns nil for all
	// four - the documented all-nil materialisation, not a bug.
	var earlyAdvs, laningAdvs, maxCsAdvs, visionAdvs []*float64

	for _, e := range rows {
		r := e.row
		if r.Win {
			wins++
		}
		kills += float64(r.Kills)
		deaths += float64(r.Deaths)
		assists += float64(r.Assists)
		d := r.Deaths
		if d == 0 {
			d = 1
		}
		kda += float64(r.Kills+r.Assists) / float64(d)
		gold += float64(r.GoldEarned)
		if r.GoldPerMin != nil {
			goldPerMins = append(goldPerMins, *r.GoldPerMin)
		}
		dmg += float64(r.DamageToChampions)
		if r.DamagePerMin != nil {
			dmgPerMins = append(dmgPerMins, *r.DamagePerMin)
		}
		cs += float64(r.TotalCS)
		if r.LaneMinionsFirst10 != nil {
			cs10s = append(cs10s, *r.LaneMinionsFirst10)
		}
		vision += float64(r.VisionScore)
		if r.VisionScorePerMin != nil {
			visionPerMins = append(visionPerMins, *r.VisionScorePerMin)
		}
		turretTD += float64(r.TurretTakedowns)
		inhibTD += float64(r.InhibitorTakedowns)

		if e.goldDiffVsLane != nil {
			goldDiffs = append(goldDiffs, *e.goldDiffVsLane)
		}
		if e.csDiffVsLane != nil {
			csDiffs = append(csDiffs, *e.csDiffVsLane)
		}
		if e.visionDiffVsLane != nil {
			visionDiffs = append(visionDiffs, *e.visionDiffVsLane)
		}
	}

	out.WinRate = wins / n
	out.AvgKills = kills / n
	out.AvgDeaths = deaths / n
	out.AvgAssists = assists / n
	out.AvgKDA = kda / n
	out.AvgGoldEarned = gold / n
	out.AvgGoldPerMin = meanOrZero(goldPerMins)
	out.AvgDamageToChamps = dmg / n
	out.AvgDamagePerMin = meanOrZero(dmgPerMins)
	out.AvgTotalCS = cs / n
	out.AvgCS10 = meanOrZero(cs10s)
	out.AvgVisionScore = vision / n
	out.AvgVisionPerMin = meanOrZero(visionPerMins)
	out.AvgTurretTakedown = turretTD / n
	out.AvgInhibTakedown = inhibTD / n

	out.AvgGoldDiffVsLane = meanOrNil(goldDiffs)
	out.AvgCsDiffVsLane = meanOrNil(csDiffs)
	out.AvgVisionDiffVsLane = meanOrNil(visionDiffs)
	out.AvgEarlyGoldXPAdv = columns.MeanOptional(earlyAdvs)
	out.AvgLaningGoldXPAdv = columns.MeanOptional(laningAdvs)
	out.AvgMaxCsAdvLane = columns.MeanOptional(maxCsAdvs)
	out.AvgVisionScoreAdvLane = columns.MeanOptional(visionAdvs)

	return out
}

func meanOrNil(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	v := columns.Mean(vals)
	return &v
}

// meanOrZero mirrors meanOrNil for the ProfileRow fields that aren't
// pointer-typed: the mean excludes rows where the source column was
// absent, same as Polars' .mean() over a nullable column, but the zero
// value stands in for "no rows had this column" since the field itself
// isn't optional.
func meanOrZero(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return columns.Mean(vals)
}
