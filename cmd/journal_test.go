package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ziadkadry99/playdeck/internal/audit"
	"github.com/ziadkadry99/playdeck/internal/config"
	"github.com/ziadkadry99/playdeck/internal/db"
)

func TestJournalPrune(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(dir, "data")
	path := filepath.Join(dir, config.FileName)
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store := audit.NewStore(database)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old-1", "old-2", "new"} {
		e := audit.Entry{ID: id, ActorType: audit.ActorLearner, Learner: "ana", Action: audit.ActionSessionOpened, Scope: audit.ScopeCourse, Timestamp: base.Add(time.Duration(i) * 24 * time.Hour)}
		if id == "new" {
			e.Timestamp = base.AddDate(0, 1, 0)
		}
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
	database.Close()

	rootCmd.SetArgs([]string{"--config", path, "journal", "prune", "--before", "2024-03-15T00:00:00Z", "--yes"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("journal prune: %v", err)
	}

	database, err = db.Open(cfg.DBPath())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer database.Close()
	rest, err := audit.NewStore(database).Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "new" {
		t.Errorf("remaining = %+v, want only the entry after the cutoff", rest)
	}
}
