// Package outcome implements the team-outcome and lobby-outcome table
// builders (C7), grounded on original_source/src/kraken_prepare_ml.rs's
// kraken_build_ml_team_outcome and kraken_build_ml_lobby_outcome: the
// same column projection, the same group-by-(match,team) ally roster,
// the same self-join via the flipped team id to attach the enemy roster,
// and the same optional per-role profile left-join when a profile table
// is supplied.
package outcome

import (
	"strconv"

	"github.com/arnauet/riot-go-kraken/internal/extract"
	"github.com/arnauet/riot-go-kraken/internal/profile"
)

const (
	queueIDRankedSolo = 420
	teamIDTotal       = 300
)

// TeamOutcomeRow projects TeamRow to the columns kraken_build_ml_team_outcome
// keeps, restricted to ranked solo queue.
type TeamOutcomeRow struct {
	MatchID  string `parquet:"match_id"`
	QueueID  int    `parquet:"queue_id"`
	TeamID   int    `parquet:"team_id"`
	TeamSide string `parquet:"team_side"`
	TeamWin  bool   `parquet:"team_win"`

	TopChampionID     *int `parquet:"top_champion_id,optional"`
	JungleChampionID  *int `parquet:"jungle_champion_id,optional"`
	MiddleChampionID  *int `parquet:"middle_champion_id,optional"`
	BottomChampionID  *int `parquet:"bottom_champion_id,optional"`
	UtilityChampionID *int `parquet:"utility_champion_id,optional"`

	GameDuration int64 `parquet:"game_duration"`

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

	TeamTowersDestroyed     int  `parquet:"team_towers_destroyed"`
	TeamInhibitorsDestroyed int  `parquet:"team_inhibitors_destroyed"`
	TeamDragons             int  `parquet:"team_dragons"`
	TeamBarons              int  `parquet:"team_barons"`
	TeamHeralds             int  `parquet:"team_heralds"`
	TeamPlates              *int `parquet:"team_plates,optional"`
}

// BuildTeamOutcome projects teams to the ml_team_outcome schema,
// restricted to ranked solo queue.
func BuildTeamOutcome(teams []extract.TeamRow) []TeamOutcomeRow {
	var out []TeamOutcomeRow
	for _, t := range teams {
		if t.QueueID != queueIDRankedSolo {
			continue
		}
		out = append(out, TeamOutcomeRow{
			MatchID:                 t.MatchID,
			QueueID:                 t.QueueID,
			TeamID:                  t.TeamID,
			TeamSide:                t.TeamSide,
			TeamWin:                 t.TeamWin,
			TopChampionID:           t.TopChampionID,
			JungleChampionID:        t.JungleChampionID,
			MiddleChampionID:        t.MiddleChampionID,
			BottomChampionID:        t.BottomChampionID,
			UtilityChampionID:       t.UtilityChampionID,
			GameDuration:            t.GameDuration,
			TeamKills:               t.TeamKills,
			TeamDeaths:              t.TeamDeaths,
			TeamAssists:             t.TeamAssists,
			TeamGoldEarned:          t.TeamGoldEarned,
			TeamDamageToChampions:   t.TeamDamageToChampions,
			TeamVisionScore:         t.TeamVisionScore,
			TeamCSTotal:             t.TeamCSTotal,
			TeamGoldPerMin:          t.TeamGoldPerMin,
			TeamDamagePerMin:        t.TeamDamagePerMin,
			TeamVisionScorePerMin:   t.TeamVisionScorePerMin,
			TeamCSPerMin:            t.TeamCSPerMin,
			TeamTowersDestroyed:     t.TeamTowersDestroyed,
			TeamInhibitorsDestroyed: t.TeamInhibitorsDestroyed,
			TeamDragons:             t.TeamDragons,
			TeamBarons:              t.TeamBarons,
			TeamHeralds:             t.TeamHeralds,
			TeamPlates:              t.TeamPlates,
		})
	}
	return out
}

// roleColumns is the per-side, per-role roster: champion id, puuid and,
// when a profile table was supplied, that player's recent-form features.
type roleColumns struct {
	ChampionID *int    `parquet:"champion_id,optional"`
	PUUID      *string `parquet:"puuid,optional"`

	RecentGames        *int     `parquet:"recent_games,optional"`
	RecentWinrate      *float64 `parquet:"recent_winrate,optional"`
	RecentGoldPerMin   *float64 `parquet:"recent_gold_per_min,optional"`
	RecentDamagePerMin *float64 `parquet:"recent_damage_per_min,optional"`
	RecentVisionPerMin *float64 `parquet:"recent_vision_per_min,optional"`
}

// LobbyOutcomeRow is one row per (match, team): that team's roster, the
// enemy team's roster (via the flipped-team-id self-join), that team's
// outcome, and - when a profile table is supplied to BuildLobbyOutcome -
// each of the ten roles' recent-form features. One field pair per
// canonical role, since Parquet's generic writer needs a fixed struct
// shape rather than the original's dynamically-named columns.
type LobbyOutcomeRow struct {
	MatchID  string `parquet:"match_id"`
	QueueID  int    `parquet:"queue_id"`
	TeamID   int    `parquet:"team_id"`
	TeamSide string `parquet:"team_side"`
	TeamWin  bool   `parquet:"team_win"`

	AllyTop      roleColumns `parquet:"ally_top"`
	AllyJungle   roleColumns `parquet:"ally_jungle"`
	AllyMiddle   roleColumns `parquet:"ally_middle"`
	AllyBottom   roleColumns `parquet:"ally_bottom"`
	AllyUtility  roleColumns `parquet:"ally_utility"`
	EnemyTop     roleColumns `parquet:"enemy_top"`
	EnemyJungle  roleColumns `parquet:"enemy_jungle"`
	EnemyMiddle  roleColumns `parquet:"enemy_middle"`
	EnemyBottom  roleColumns `parquet:"enemy_bottom"`
	EnemyUtility roleColumns `parquet:"enemy_utility"`
}

// roleSlot returns a pointer to the field holding role within row, for
// the given side.
func (row *LobbyOutcomeRow) roleSlot(ally bool, role string) *roleColumns {
	switch {
	case ally && role == "TOP":
		return &row.AllyTop
	case ally && role == "JUNGLE":
		return &row.AllyJungle
	case ally && role == "MIDDLE":
		return &row.AllyMiddle
	case ally && role == "BOTTOM":
		return &row.AllyBottom
	case ally && role == "UTILITY":
		return &row.AllyUtility
	case !ally && role == "TOP":
		return &row.EnemyTop
	case !ally && role == "JUNGLE":
		return &row.EnemyJungle
	case !ally && role == "MIDDLE":
		return &row.EnemyMiddle
	case !ally && role == "BOTTOM":
		return &row.EnemyBottom
	case !ally && role == "UTILITY":
		return &row.EnemyUtility
	default:
		return nil
	}
}

type roster struct {
	championID map[string]*int
	puuid      map[string]*string
}

func emptyRoster() roster {
	return roster{championID: map[string]*int{}, puuid: map[string]*string{}}
}

// BuildLobbyOutcome implements the lobby-outcome join of §4.7: group the
// (ranked solo) player table by (match_id, team_id) into a five-role
// roster, self-join each roster against the opposing team_id's roster in
// the same match to attach the enemy roster, then inner-join against the
// team outcome table. profileTable may be nil; when present, each row's
// ally and enemy rosters are matched against the profile table by
// (puuid, role) for a per-role recent-form attachment (§9: ally/enemy
// columns are renamed and the join-key puuid column is dropped after
// each per-role join, mirrored here by writing straight into roleColumns
// rather than carrying a joined puuid column through).
func BuildLobbyOutcome(players []extract.PlayerRow, teams []TeamOutcomeRow, profileTable []profile.ProfileRow) []LobbyOutcomeRow {
	rosters := groupRosters(players)
	profileIndex := indexProfiles(profileTable)

	teamByKey := make(map[string]TeamOutcomeRow, len(teams))
	for _, t := range teams {
		teamByKey[t.MatchID+"\x00"+strconv.Itoa(t.TeamID)] = t
	}

	var out []LobbyOutcomeRow
	for key, r := range rosters {
		matchID, teamID := splitRosterKey(key)
		teamRow, ok := teamByKey[matchID+"\x00"+strconv.Itoa(teamID)]
		if !ok {
			continue
		}

		enemyTeamID := teamIDTotal - teamID
		enemy, hasEnemy := rosters[matchID+"\x00"+strconv.Itoa(enemyTeamID)]
		if !hasEnemy {
			enemy = emptyRoster()
		}

		row := LobbyOutcomeRow{
			MatchID:  matchID,
			QueueID:  teamRow.QueueID,
			TeamID:   teamID,
			TeamSide: teamRow.TeamSide,
			TeamWin:  teamRow.TeamWin,
		}

		for _, role := range extract.CanonicalRoles {
			*row.roleSlot(true, role) = rosterColumns(r, role, profileTable != nil, profileIndex)
			*row.roleSlot(false, role) = rosterColumns(enemy, role, profileTable != nil, profileIndex)
		}

		out = append(out, row)
	}
	return out
}

func rosterColumns(r roster, role string, withProfile bool, idx map[string]*profile.ProfileRow) roleColumns {
	cols := roleColumns{
		ChampionID: r.championID[role],
		PUUID:      r.puuid[role],
	}
	if !withProfile || cols.PUUID == nil {
		return cols
	}
	p, ok := idx[*cols.PUUID+"\x00"+role]
	if !ok {
		return cols
	}
	games := p.GamesUsed
	cols.RecentGames = &games
	winrate := p.WinRate
	cols.RecentWinrate = &winrate
	goldPerMin := p.AvgGoldPerMin
	cols.RecentGoldPerMin = &goldPerMin
	dmgPerMin := p.AvgDamagePerMin
	cols.RecentDamagePerMin = &dmgPerMin
	visionPerMin := p.AvgVisionPerMin
	cols.RecentVisionPerMin = &visionPerMin
	return cols
}

func groupRosters(players []extract.PlayerRow) map[string]roster {
	rosters := map[string]roster{}
	for _, p := range players {
		if p.QueueID != queueIDRankedSolo {
			continue
		}
		if !isCanonicalRole(p.Role) {
			continue
		}
		key := p.MatchID + "\x00" + strconv.Itoa(p.TeamID)
		r, ok := rosters[key]
		if !ok {
			r = emptyRoster()
		}
		if _, already := r.championID[p.Role]; !already {
			championID := p.ChampionID
			puuid := p.PUUID
			r.championID[p.Role] = &championID
			r.puuid[p.Role] = &puuid
		}
		rosters[key] = r
	}
	return rosters
}

func isCanonicalRole(role string) bool {
	for _, r := range extract.CanonicalRoles {
		if r == role {
			return true
		}
	}
	return false
}

func indexProfiles(profileTable []profile.ProfileRow) map[string]*profile.ProfileRow {
	idx := make(map[string]*profile.ProfileRow, len(profileTable))
	for i := range profileTable {
		p := &profileTable[i]
		idx[p.PUUID+"\x00"+p.Role] = p
	}
	return idx
}

func splitRosterKey(key string) (string, int) {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			teamID, _ := strconv.Atoi(key[i+1:])
			return key[:i], teamID
		}
	}
	return key, 0
}
