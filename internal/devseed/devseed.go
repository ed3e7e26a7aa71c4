// Package devseed loads YAML seed documents for the in-memory Game Jolt
// mock service. Seeds declare users, trophies, score tables, scores and
// data-store entries so local development starts from a known state.
package devseed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// User is a seeded player account.
type User struct {
	Username string `yaml:"username"`
	Token    string `yaml:"token"`
}

// Trophy is a seeded trophy definition.
type Trophy struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
	ImageURL    string `yaml:"image_url"`
}

// ScoreTable is a seeded score table definition.
type ScoreTable struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Primary     bool   `yaml:"primary"`
}

// Score is a seeded score row.
type Score struct {
	TableID  int    `yaml:"table_id"`
	Username string `yaml:"username"`
	Guest    string `yaml:"guest"`
	Score    string `yaml:"score"`
	Sort     int    `yaml:"sort"`
}

// StoreEntry is a seeded data-store item. An empty Username targets the
// public (game-wide) store.
type StoreEntry struct {
	Key      string `yaml:"key"`
	Data     string `yaml:"data"`
	Username string `yaml:"username"`
}

// Seed is the root document of a seed file.
type Seed struct {
	Users       []User       `yaml:"users"`
	Trophies    []Trophy     `yaml:"trophies"`
	ScoreTables []ScoreTable `yaml:"score_tables"`
	Scores      []Score      `yaml:"scores"`
	DataStore   []StoreEntry `yaml:"data_store"`
}

// Load reads and validates a seed file.
func Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("devseed: decode seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	for i, u := range s.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("devseed: users[%d] missing username", i)
		}
		if strings.TrimSpace(u.Token) == "" {
			return fmt.Errorf("devseed: users[%d] missing token", i)
		}
	}
	for i, tr := range s.Trophies {
		if tr.ID <= 0 {
			return fmt.Errorf("devseed: trophies[%d] missing id", i)
		}
	}
	for i, tbl := range s.ScoreTables {
		if tbl.ID <= 0 {
			return fmt.Errorf("devseed: score_tables[%d] missing id", i)
		}
	}
	for i, e := range s.DataStore {
		if strings.TrimSpace(e.Key) == "" {
			return fmt.Errorf("devseed: data_store[%d] missing key", i)
		}
	}
	return nil
}
