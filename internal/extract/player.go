package extract

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/arnauet/riot-go-kraken/internal/riotapi"
)

var errMissingFields = errors.New("missing metadata/info/participants/teams")

// maxWalkers bounds the number of match files decoded concurrently,
// grounded on golang.org/x/sync/errgroup's bounded-group idiom (the
// teacher's own worker pool in internal/collector/spider.go caps
// goroutine count the same way, via a buffered channel of tokens).
const maxWalkers = 8

// BuildPlayerTable walks every match document under dir and returns one
// PlayerRow per (match, participant), per §6. Files that fail to read or
// decode are skipped, not fatal (§4.5); skipped paths are reported via
// onSkip if non-nil.
func BuildPlayerTable(dir string, onSkip func(path string, reason error)) ([]PlayerRow, error) {
	paths, err := collectMatchFiles(dir)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		rows []PlayerRow
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

			local := playerRowsForMatch(doc)

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

func playerRowsForMatch(doc *riotapi.MatchDocument) []PlayerRow {
	durationSecs := doc.Info.GameDuration

	rows := make([]PlayerRow, 0, len(doc.Info.Participants))
	for _, p := range doc.Info.Participants {
		row := PlayerRow{
			MatchID:      doc.Metadata.MatchID,
			GameCreation: doc.Info.GameCreation,
			GameDuration: durationSecs,
			QueueID:      doc.Info.QueueID,
			GameVersion:  doc.Info.GameVersion,
			TeamID:       p.TeamID,
			PUUID:        p.PUUID,
			ChampionID:   p.ChampionID,
			ChampionName: p.ChampionName,
			Role:         p.Role(),
			Win:          p.Win,

			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Assists:    p.Assists,
			ChampLevel: p.ChampLevel,

			GoldEarned:           p.GoldEarned,
			GoldSpent:            p.GoldSpent,
			TotalMinionsKilled:   p.TotalMinionsKilled,
			NeutralMinionsKilled: p.NeutralMinionsKilled,
			TotalCS:              p.TotalCS(),

			DamageToChampions:  p.TotalDamageToChampions(),
			DamageToObjectives: p.DamageDealtToObjectives,
			DamageToTurrets:    p.DamageDealtToTurrets,
			TurretTakedowns:    p.TurretTakedowns,
			InhibitorTakedowns: p.InhibitorTakedowns,

			VisionScore:        p.VisionScore,
			WardsPlaced:        p.WardsPlaced,
			WardsKilled:        p.WardsKilled,
			ControlWardsPlaced: p.DetectorWardsPlaced,
		}

		// Per-minute rates and the other challenge-derived columns come
		// straight from info.participants[i].challenges.* when present,
		// absent (null) otherwise - no formula fallback from raw totals.
		if p.Challenges != nil {
			row.DamagePerMin = p.Challenges.DamagePerMinute
			row.GoldPerMin = p.Challenges.GoldPerMinute
			row.VisionScorePerMin = p.Challenges.VisionScorePerMinute
			row.TeamDamagePercentage = p.Challenges.TeamDamagePercentage
			row.KillParticipation = p.Challenges.KillParticipation
			row.KDA = p.Challenges.KDA
			row.LaneMinionsFirst10 = p.Challenges.LaneMinionsFirst10Minutes
			row.JungleCsBefore10 = p.Challenges.JungleCsBefore10Minutes
		}

		rows = append(rows, row)
	}
	return rows
}

func collectMatchFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func decodeMatchFile(path string) (*riotapi.MatchDocument, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &riotapi.IOError{Cause: err, Path: path}
	}
	var doc riotapi.MatchDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &riotapi.DecodeError{Cause: err, PathOrURL: path}
	}
	if doc.Metadata.MatchID == "" || len(doc.Info.Participants) == 0 || len(doc.Info.Teams) == 0 {
		return nil, &riotapi.DecodeError{Cause: errMissingFields, PathOrURL: path}
	}
	return &doc, nil
}
