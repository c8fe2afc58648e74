// Package config loads the environment configuration every cmd/kraken
// subcommand shares: the Riot API credential and an optional default
// seed PUUID.
//
// Grounded on the teacher's own cmd/collector/main.go, cmd/reducer/main.go
// and cmd/pipeline/main.go, which each repeat the identical "try a short
// list of candidate .env paths, fall back to whatever's already in the
// environment" idiom via github.com/joho/godotenv.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// candidatePaths mirrors the teacher's envPaths list, widened with one
// more level since cmd/kraken sits one directory deeper than the
// teacher's flat cmd/<tool> layout.
var candidatePaths = []string{".env", "../.env", "../../.env", "../../../.env"}

// LoadDotEnv tries each candidate path in order and loads the first one
// found, logging which path (if any) was used. It never returns an
// error: a missing .env file is expected when credentials are supplied
// directly as environment variables.
func LoadDotEnv() {
	for _, path := range candidatePaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Fprintf(os.Stderr, "loaded .env from: %s\n", path)
			return
		}
	}
	fmt.Fprintln(os.Stderr, "no .env file found, using environment variables")
}

// RiotAPIKey returns RIOT_API_KEY, the credential internal/riotapi.NewClient
// also reads directly; exposed here so cmd/kraken can fail fast with a
// clear usage message before constructing a client.
func RiotAPIKey() string {
	return os.Getenv("RIOT_API_KEY")
}

// SeedPUUID returns the optional RIOT_PUUID default seed, used by
// matches when --puuid isn't passed and by kraken-eat when --seed-puuid
// isn't passed.
func SeedPUUID() string {
	return os.Getenv("RIOT_PUUID")
}
