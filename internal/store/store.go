// Package store implements the match document store (C3): a flat
// directory of pretty-printed match JSON files keyed by match id.
//
// Grounded on the teacher's internal/storage.FileRotator for the
// mutex-guarded single-writer idiom, simplified to one file per match
// since nothing downstream needs JSONL sharding or hot/warm/cold staging.
package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/arnauet/riot-go-kraken/internal/riotapi"
)

// Store is the on-disk match document directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New ensures dir exists and returns a Store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &riotapi.IOError{Cause: err, Path: dir}
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) pathFor(matchID string) string {
	return filepath.Join(s.dir, matchID+".json")
}

// Exists reports whether matchID has already been written to disk. The
// crawler guards duplicate downloads with its own in-memory seen set
// (§4.3); this is provided for idempotent-run verification (P2).
func (s *Store) Exists(matchID string) bool {
	_, err := os.Stat(s.pathFor(matchID))
	return err == nil
}

// Write persists a match document as pretty-printed JSON, creating or
// overwriting the file named <match_id>.json.
func (s *Store) Write(matchID string, doc *riotapi.MatchDocument) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &riotapi.DecodeError{Cause: err, PathOrURL: matchID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(matchID)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return &riotapi.IOError{Cause: err, Path: path}
	}
	return nil
}

// WalkFunc is invoked once per successfully-decoded match document found
// under the store, with the file path and decoded document.
type WalkFunc func(path string, doc *riotapi.MatchDocument) error

// OnSkip is invoked once per file that could not be read or decoded, or
// that is missing a required top-level key.
type OnSkip func(path string, reason error)

// Walk recursively visits every *.json file under the store, decoding
// each as a MatchDocument and invoking fn. Unreadable or ill-formed files
// are skipped (reported via onSkip, which may be nil) rather than
// aborting the walk, per §4.5.
func Walk(dir string, fn WalkFunc, onSkip OnSkip) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if onSkip != nil {
				onSkip(path, err)
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			if onSkip != nil {
				onSkip(path, err)
			}
			return nil
		}

		var doc riotapi.MatchDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			if onSkip != nil {
				onSkip(path, err)
			}
			return nil
		}
		if doc.Metadata.MatchID == "" || len(doc.Info.Participants) == 0 || len(doc.Info.Teams) == 0 {
			if onSkip != nil {
				onSkip(path, fmt.Errorf("missing metadata/info/participants/teams"))
			}
			return nil
		}

		return fn(path, &doc)
	})
}
