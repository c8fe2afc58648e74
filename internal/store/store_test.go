package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arnauet/riot-go-kraken/internal/riotapi"
)

func sampleDoc(matchID string) *riotapi.MatchDocument {
	return &riotapi.MatchDocument{
		Metadata: riotapi.MatchMetadata{MatchID: matchID, Participants: []string{"p0"}},
		Info: riotapi.MatchInfo{
			QueueID:      420,
			Participants: []riotapi.MatchParticipant{{PUUID: "p0"}},
			Teams:        []riotapi.MatchTeam{{TeamID: 100}, {TeamID: 200}},
		},
	}
}

func TestStore_WriteAndExists(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if s.Exists("M1") {
		t.Fatal("M1 should not exist before Write")
	}
	if err := s.Write("M1", sampleDoc("M1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Exists("M1") {
		t.Fatal("M1 should exist after Write")
	}

	path := filepath.Join(dir, "M1.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}

func TestStore_WriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)
	s.Write("M1", sampleDoc("M1"))
	first, _ := os.ReadFile(filepath.Join(dir, "M1.json"))
	s.Write("M1", sampleDoc("M1"))
	second, _ := os.ReadFile(filepath.Join(dir, "M1.json"))
	if string(first) != string(second) {
		t.Fatal("rewriting the same document should be content-equal")
	}
}

func TestWalk_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir)
	s.Write("good", sampleDoc("good"))
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0o644)
	os.WriteFile(filepath.Join(dir, "incomplete.json"), []byte(`{"metadata":{}}`), 0o644)

	var visited []string
	var skipped []string
	err := Walk(dir, func(path string, doc *riotapi.MatchDocument) error {
		visited = append(visited, doc.Metadata.MatchID)
		return nil
	}, func(path string, reason error) {
		skipped = append(skipped, path)
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(visited) != 1 || visited[0] != "good" {
		t.Fatalf("visited = %v, want [good]", visited)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v, want 2 entries", skipped)
	}
}
