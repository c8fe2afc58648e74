package outcome

import (
	"testing"

	"github.com/arnauet/riot-go-kraken/internal/extract"
	"github.com/arnauet/riot-go-kraken/internal/profile"
)

func intPtr(v int) *int { return &v }

func teamRow(matchID string, teamID int, win bool) extract.TeamRow {
	return extract.TeamRow{
		MatchID:           matchID,
		QueueID:           420,
		TeamID:            teamID,
		TeamSide:          teamSideOf(teamID),
		TeamWin:           win,
		TopChampionID:     intPtr(teamID),
		JungleChampionID:  intPtr(teamID),
		MiddleChampionID:  intPtr(teamID),
		BottomChampionID:  intPtr(teamID),
		UtilityChampionID: intPtr(teamID),
	}
}

func teamSideOf(teamID int) string {
	if teamID == 100 {
		return "blue"
	}
	return "red"
}

func lobbyPlayers(matchID string) []extract.PlayerRow {
	var rows []extract.PlayerRow
	for _, role := range extract.CanonicalRoles {
		rows = append(rows,
			extract.PlayerRow{MatchID: matchID, QueueID: 420, TeamID: 100, Role: role, PUUID: "blue-" + role, ChampionID: 1},
			extract.PlayerRow{MatchID: matchID, QueueID: 420, TeamID: 200, Role: role, PUUID: "red-" + role, ChampionID: 2},
		)
	}
	return rows
}

func TestBuildTeamOutcome_FiltersNonRanked(t *testing.T) {
	teams := []extract.TeamRow{
		{MatchID: "M1", QueueID: 420, TeamID: 100},
		{MatchID: "M1", QueueID: 430, TeamID: 200},
	}
	out := BuildTeamOutcome(teams)
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	if out[0].QueueID != 420 {
		t.Fatalf("QueueID = %d, want 420", out[0].QueueID)
	}
}

// P9 / S6: lobby-outcome rows exist for both teams of a match, and each
// team's enemy roster matches the other team's ally roster (self-join
// symmetry).
func TestBuildLobbyOutcome_Symmetry(t *testing.T) {
	matchID := "M1"
	teams := BuildTeamOutcome([]extract.TeamRow{teamRow(matchID, 100, true), teamRow(matchID, 200, false)})
	players := lobbyPlayers(matchID)

	rows := BuildLobbyOutcome(players, teams, nil)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	var blue, red *LobbyOutcomeRow
	for i := range rows {
		switch rows[i].TeamID {
		case 100:
			blue = &rows[i]
		case 200:
			red = &rows[i]
		}
	}
	if blue == nil || red == nil {
		t.Fatal("expected rows for both team 100 and team 200")
	}

	if blue.AllyTop.PUUID == nil || *blue.AllyTop.PUUID != "blue-TOP" {
		t.Fatalf("blue ally top puuid = %v, want blue-TOP", blue.AllyTop.PUUID)
	}
	if blue.EnemyTop.PUUID == nil || *blue.EnemyTop.PUUID != "red-TOP" {
		t.Fatalf("blue enemy top puuid = %v, want red-TOP", blue.EnemyTop.PUUID)
	}
	if red.AllyTop.PUUID == nil || *red.AllyTop.PUUID != "red-TOP" {
		t.Fatalf("red ally top puuid = %v, want red-TOP", red.AllyTop.PUUID)
	}
	if red.EnemyTop.PUUID == nil || *red.EnemyTop.PUUID != "blue-TOP" {
		t.Fatalf("red enemy top puuid = %v, want blue-TOP", red.EnemyTop.PUUID)
	}

	// Symmetry: blue's ally roster is red's enemy roster and vice versa.
	if *blue.AllyTop.PUUID != *red.EnemyTop.PUUID {
		t.Fatal("blue ally top should equal red enemy top")
	}
	if *red.AllyTop.PUUID != *blue.EnemyTop.PUUID {
		t.Fatal("red ally top should equal blue enemy top")
	}
}

func TestBuildLobbyOutcome_AttachesProfile(t *testing.T) {
	matchID := "M1"
	teams := BuildTeamOutcome([]extract.TeamRow{teamRow(matchID, 100, true), teamRow(matchID, 200, false)})
	players := lobbyPlayers(matchID)

	profiles := []profile.ProfileRow{
		{PUUID: "blue-TOP", Role: "TOP", GamesUsed: 12, WinRate: 0.6},
	}

	rows := BuildLobbyOutcome(players, teams, profiles)
	var blue *LobbyOutcomeRow
	for i := range rows {
		if rows[i].TeamID == 100 {
			blue = &rows[i]
		}
	}
	if blue == nil {
		t.Fatal("expected a row for team 100")
	}
	if blue.AllyTop.RecentGames == nil || *blue.AllyTop.RecentGames != 12 {
		t.Fatalf("AllyTop.RecentGames = %v, want 12", blue.AllyTop.RecentGames)
	}
	if blue.AllyTop.RecentWinrate == nil || *blue.AllyTop.RecentWinrate != 0.6 {
		t.Fatalf("AllyTop.RecentWinrate = %v, want 0.6", blue.AllyTop.RecentWinrate)
	}
	if blue.EnemyTop.RecentGames != nil {
		t.Fatal("expected no profile match for red-TOP (not in profile table)")
	}
}
