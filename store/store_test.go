package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/mixing-rl/types"
)

func sampleTable() *types.QTable {
	table := types.NewQTable(6, 4)
	table.Set(0, 1, 5.0)
	table.Set(3, 2, -1.25)
	table.Set(5, 3, 0.5)
	return table
}

func checkSample(t *testing.T, table *types.QTable) {
	t.Helper()
	want := sampleTable()
	for s := 0; s < 6; s++ {
		for a := 0; a < 4; a++ {
			if got := table.Get(s, a); got != want.Get(s, a) {
				t.Fatalf("Q[%d][%d] = %v, want %v", s, a, got, want.Get(s, a))
			}
		}
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "run", "qtable_1.bin"))

	if _, err := s.Load(ctx, 6, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("loading a missing table: got %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, sampleTable()); err != nil {
		t.Fatal(err)
	}
	table, err := s.Load(ctx, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	checkSample(t, table)

	if _, err := s.Load(ctx, 7, 4); !errors.Is(err, types.ErrCorruptTable) {
		t.Fatalf("loading with other dimensions: got %v, want ErrCorruptTable", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the table file, found %d entries", len(entries))
	}
}

func TestFileStoreGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtable.bin")
	if err := os.WriteFile(path, []byte("not a matrix"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(context.Background(), 6, 4); !errors.Is(err, types.ErrCorruptTable) {
		t.Fatalf("got %v, want ErrCorruptTable", err)
	}
}

// requires a reachable redis, set MIXING_REDIS_ADDR to run it
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("MIXING_REDIS_ADDR")
	if addr == "" {
		t.Skip("MIXING_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s := NewRedisStore(addr, "mixing-rl:test:"+t.Name())
	defer s.Close()
	defer s.client.Del(ctx, s.key)

	if _, err := s.Load(ctx, 6, 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("loading a missing table: got %v, want ErrNotFound", err)
	}
	if err := s.Save(ctx, sampleTable()); err != nil {
		t.Fatal(err)
	}
	table, err := s.Load(ctx, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	checkSample(t, table)
}

func TestRunKey(t *testing.T) {
	if got := RunKey("tables", 3); got != "tables:3" {
		t.Errorf("got %q", got)
	}
	if got := RunKey("", 1); got != DefaultRedisKey+":1" {
		t.Errorf("got %q", got)
	}
}

func TestRedisStoreSharedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6390"})
	defer client.Close()
	first := NewRedisStoreWithClient(client, RunKey("tables", 1))
	second := NewRedisStoreWithClient(client, RunKey("tables", 2))
	if first.Location() != "redis://127.0.0.1:6390/tables:1" {
		t.Errorf("location %s", first.Location())
	}
	if second.Location() != "redis://127.0.0.1:6390/tables:2" {
		t.Errorf("location %s", second.Location())
	}
}
