package crawler

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/arnauet/riot-go-kraken/internal/riotapi"
	"github.com/arnauet/riot-go-kraken/internal/store"
)

const (
	matchIDsPerFetch = 100
	maxDocumentAge   = 90 * 24 * time.Hour
)

// APIClient is the subset of *riotapi.Client the crawler drives. Declared
// as an interface so S1-S6's deterministic scenarios can supply a stub.
type APIClient interface {
	ListMatchIDs(ctx context.Context, puuid string, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riotapi.MatchDocument, error)
	GetSoloQueueTier(ctx context.Context, puuid string) (string, error)
}

// Crawler drives one BFS run (C4): one cooperative actor, per §5.
type Crawler struct {
	cfg    Config
	client APIClient
	store  *store.Store
	state  *State
}

// New constructs a Crawler over cfg, client and st.
func New(cfg Config, client APIClient, st *store.Store) *Crawler {
	return &Crawler{cfg: cfg, client: client, store: st, state: newState()}
}

// Run executes the crawl loop described in §4.4 until the frontier is
// empty or a termination condition fires. It returns ErrEmptySeed if no
// seed was admitted, and returns (nil, ctx.Err()) without a coverage
// report on host-level cancellation, per §5.
func (c *Crawler) Run(ctx context.Context) (*CoverageReport, error) {
	admitted, err := c.seed(ctx)
	if err != nil {
		return nil, err
	}
	if admitted == 0 {
		return nil, riotapi.ErrEmptySeed
	}

	for c.state.frontier.len() > 0 {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.shouldTerminate() {
			break
		}
		c.maybeLog()

		puuid, ok := c.state.frontier.popFront()
		if !ok {
			break
		}
		if c.state.downloadedCountFor(puuid) >= c.cfg.MaxMatchesPerPlayer {
			continue
		}

		if err := c.processPlayer(ctx, puuid); err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				return nil, err
			}
			log.Printf("[crawl] error processing player %s: %v", puuid, err)
		}
	}

	report := c.state.buildReport()
	return &report, nil
}

// seed loads seed identifiers from cfg.SeedPUUID and/or cfg.SeedFile
// (one identifier per line, blank lines skipped) and admits each through
// admit, returning the number admitted.
func (c *Crawler) seed(ctx context.Context) (int, error) {
	var ids []string
	if c.cfg.SeedPUUID != "" {
		ids = append(ids, c.cfg.SeedPUUID)
	}
	if c.cfg.SeedFile != "" {
		lines, err := readLines(c.cfg.SeedFile)
		if err != nil {
			return 0, &riotapi.IOError{Cause: err, Path: c.cfg.SeedFile}
		}
		ids = append(ids, lines...)
	}

	admitted := 0
	for _, id := range ids {
		ok, err := c.admit(ctx, id, nil, true)
		if err != nil {
			log.Printf("[crawl] seed admission error for %s: %v", id, err)
			continue
		}
		if ok {
			admitted++
		}
	}
	return admitted, nil
}

func (c *Crawler) shouldTerminate() bool {
	if c.cfg.Duration > 0 && time.Since(c.state.StartTime) >= c.cfg.Duration {
		return true
	}
	if c.cfg.MaxMatchesTotal > 0 && c.state.WrittenMatches >= c.cfg.MaxMatchesTotal {
		return true
	}
	if c.cfg.IdleExitAfter > 0 && c.state.WrittenMatches > 0 && time.Since(c.state.LastWrittenAt) >= c.cfg.IdleExitAfter {
		return true
	}
	return false
}

func (c *Crawler) maybeLog() {
	if c.cfg.LogInterval <= 0 || time.Since(c.state.LastLoggedAt) < c.cfg.LogInterval {
		return
	}
	c.state.LastLoggedAt = time.Now()
	ge5, ge10, ge20, avg := c.state.coverageBuckets()
	log.Printf("[crawl] elapsed=%s fetched=%d written=%d frontier=%d seen_players=%d "+
		">=5:%d >=10:%d >=20:%d avg/player=%.2f",
		formatDuration(time.Since(c.state.StartTime)), c.state.Fetched, c.state.WrittenMatches,
		c.state.frontier.len(), c.state.seenPlayerCount(), ge5, ge10, ge20, avg)
}

// processPlayer fetches up to matchIDsPerFetch match ids for puuid and
// processes each in upstream order per §4.4's main-loop bullet list.
func (c *Crawler) processPlayer(ctx context.Context, puuid string) error {
	matchIDs, err := c.client.ListMatchIDs(ctx, puuid, matchIDsPerFetch)
	if err != nil {
		return err
	}

	for _, matchID := range matchIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.state.downloadedCountFor(puuid) >= c.cfg.MaxMatchesPerPlayer {
			break
		}
		if c.cfg.MaxMatchesTotal > 0 && c.state.WrittenMatches >= c.cfg.MaxMatchesTotal {
			break
		}

		if !c.state.markSeenMatch(matchID) {
			continue
		}

		doc, err := c.client.GetMatch(ctx, matchID)
		if err != nil {
			log.Printf("[crawl] failed to fetch match %s: %v", matchID, err)
			continue
		}
		c.state.Fetched++

		if isStale(doc.Info.GameCreation) || doc.Info.QueueID != 420 {
			c.state.incrementDownloaded(puuid)
			continue
		}

		writeAllowed := c.computeWriteAllowed(doc)

		focusSlots := c.cfg.focusSlotDefault()
		for _, coPlayer := range doc.Metadata.Participants {
			if _, err := c.admit(ctx, coPlayer, &focusSlots, false); err != nil {
				log.Printf("[crawl] tier lookup failed for %s: %v", coPlayer, err)
			}
		}

		if writeAllowed {
			if err := c.store.Write(matchID, doc); err != nil {
				log.Printf("[crawl] failed to write match %s: %v", matchID, err)
			} else {
				c.state.WrittenMatches++
				c.state.LastWrittenAt = time.Now()
			}
		}

		c.state.incrementDownloaded(puuid)
	}

	return nil
}

// admit implements the admission filter of §4.4 (maybe_enqueue),
// composing the seen-check, rank allow-list, Focus-mode slot count, and
// priority placement as independent, ordered predicates (§9's
// "Polymorphic admission filter" note). focusSlots is nil for seeds; step
// 3 only reads or decrements it in Focus mode. isSeed bypasses
// the SeedOnly never-enqueue rule: seeds always populate the frontier,
// only their co-participants are subject to it.
func (c *Crawler) admit(ctx context.Context, puuid string, focusSlots *int, isSeed bool) (bool, error) {
	if c.state.isSeenPlayer(puuid) {
		return false, nil
	}

	if len(c.cfg.AllowRanks) > 0 {
		entry, ok := c.state.tierCache[puuid]
		if !ok {
			tier, err := c.client.GetSoloQueueTier(ctx, puuid)
			if err != nil {
				return false, err
			}
			entry = tierEntry{tier: tier, present: tier != ""}
			c.state.tierCache[puuid] = entry
		}
		if entry.present && !c.cfg.AllowRanks[entry.tier] {
			c.state.markSeenPlayer(puuid)
			return false, nil
		}
	}

	if c.cfg.Mode == Focus && focusSlots != nil && *focusSlots <= 0 {
		c.state.markSeenPlayer(puuid)
		return false, nil
	}

	c.state.markSeenPlayer(puuid)

	// Q1: SeedOnly marks every co-participant seen but never enqueues.
	// The seen-check above would already make a second call a no-op; this
	// branch is what makes the first call a no-op too.
	if c.cfg.Mode == SeedOnly && !isSeed {
		return false, nil
	}

	if c.state.downloadedCountFor(puuid) < 10 {
		c.state.frontier.pushFront(puuid)
	} else {
		c.state.frontier.pushBack(puuid)
	}
	if c.cfg.Mode == Focus && focusSlots != nil {
		*focusSlots--
	}
	return true, nil
}

func (c *Crawler) computeWriteAllowed(doc *riotapi.MatchDocument) bool {
	if len(c.cfg.RoleFocus) == 0 {
		return true
	}
	for _, p := range doc.Info.Participants {
		if c.cfg.RoleFocus[strings.ToUpper(p.Role())] {
			return true
		}
	}
	return false
}

func isStale(gameCreationMillis int64) bool {
	created := time.UnixMilli(gameCreationMillis)
	return time.Since(created) >= maxDocumentAge
}

func readLines(path string) ([]string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

// State exposes the crawler's internal state for tests and CLI reporting.
func (c *Crawler) State() *State { return c.state }
