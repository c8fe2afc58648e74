package extract

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/arnauet/riot-go-kraken/internal/columns"
	"github.com/arnauet/riot-go-kraken/internal/riotapi"
)

// BuildTeamTable walks every match document under dir and returns one
// TeamRow per (match, team), aggregating across that team's five
// participants (P6). Skip semantics mirror BuildPlayerTable.
func BuildTeamTable(dir string, onSkip func(path string, reason error)) ([]TeamRow, error) {
	paths, err := collectMatchFiles(dir)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		rows []TeamRow
	)

	g := new(errgroup.Group)
	g.SetLimit(maxWalkers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			doc, err := decodeMatchFile(path)
			if err != nil {
				if onSkip != nil {
					onSkip(path, err)
				}
				return nil
			}

			local := teamRowsForMatch(doc)

			mu.Lock()
			rows = append(rows, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func teamRowsForMatch(doc *riotapi.MatchDocument) []TeamRow {
	durationSecs := doc.Info.GameDuration
	platformID := doc.Info.PlatformID

	rows := make([]TeamRow, 0, len(doc.Info.Teams))
	for _, team := range doc.Info.Teams {
		row := TeamRow{
			MatchID:      doc.Metadata.MatchID,
			QueueID:      doc.Info.QueueID,
			GameVersion:  doc.Info.GameVersion,
			GameCreation: doc.Info.GameCreation,
			GameDuration: durationSecs,
			TeamID:       team.TeamID,
			TeamSide:     teamSide(team.TeamID),
			TeamWin:      team.Win,

			TeamTowersDestroyed:     team.Objectives.Tower.Kills,
			TeamInhibitorsDestroyed: team.Objectives.Inhibitor.Kills,
			TeamDragons:             team.Objectives.Dragon.Kills,
			TeamBarons:              team.Objectives.Baron.Kills,
			TeamHeralds:             team.Objectives.RiftHerald.Kills,
		}
		if platformID != "" {
			row.PlatformID = &platformID
		}

		plates := team.Objectives.Tower.Plates
		row.TeamPlates = &plates

		firstBlood := team.Objectives.Champion.First
		row.FirstBlood = &firstBlood
		firstTower := team.Objectives.Tower.First
		row.FirstTower = &firstTower
		firstInhibitor := team.Objectives.Inhibitor.First
		row.FirstInhibitor = &firstInhibitor
		firstBaron := team.Objectives.Baron.First
		row.FirstBaron = &firstBaron
		firstDragon := team.Objectives.Dragon.First
		row.FirstDragon = &firstDragon
		firstHerald := team.Objectives.RiftHerald.First
		row.FirstHerald = &firstHerald

		for _, p := range doc.Info.Participants {
			if p.TeamID != team.TeamID {
				continue
			}
			row.TeamKills += p.Kills
			row.TeamDeaths += p.Deaths
			row.TeamAssists += p.Assists
			row.TeamGoldEarned += p.GoldEarned
			row.TeamDamageToChampions += p.TotalDamageToChampions()
			row.TeamVisionScore += p.VisionScore
			row.TeamCSTotal += p.TotalCS()

			championID := p.ChampionID
			switch p.Role() {
			case "TOP":
				row.TopChampionID = &championID
			case "JUNGLE":
				row.JungleChampionID = &championID
			case "MIDDLE":
				row.MiddleChampionID = &championID
			case "BOTTOM":
				row.BottomChampionID = &championID
			case "UTILITY":
				row.UtilityChampionID = &championID
			}
		}

		row.TeamGoldPerMin = columns.PerMinute(float64(row.TeamGoldEarned), durationSecs)
		row.TeamDamagePerMin = columns.PerMinute(float64(row.TeamDamageToChampions), durationSecs)
		row.TeamVisionScorePerMin = columns.PerMinute(float64(row.TeamVisionScore), durationSecs)
		row.TeamCSPerMin = columns.PerMinute(float64(row.TeamCSTotal), durationSecs)

		rows = append(rows, row)
	}
	return rows
}

// teamSide labels team 100 as "blue" and every other team id as "red".
func teamSide(teamID int) string {
	if teamID == 100 {
		return "blue"
	}
	return "red"
}
