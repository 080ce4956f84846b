package archive

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/quietpawn/gambit/internal/domain"
)

func record(n int, ended time.Time) *domain.GameRecord {
	return &domain.GameRecord{
		SessionUUID: fmt.Sprintf("session-%d", n),
		Result:      "1-0",
		Termination: "checkmate",
		HumanColor:  "white",
		AIEnabled:   true,
		SearchDepth: 3,
		MovesUCI:    []string{"e2e4", "e7e5"},
		MoveCount:   2,
		EngineName:  "stub",
		StartedAt:   ended.Add(-5 * time.Minute),
		EndedAt:     ended,
	}
}

func TestMemoryRepositoryRecentGamesNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := repo.InsertGame(ctx, record(i, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("InsertGame #%d: %v", i, err)
		}
	}

	games, err := repo.RecentGames(ctx, 2)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[0].SessionUUID != "session-2" || games[1].SessionUUID != "session-1" {
		t.Fatalf("order = %s, %s; want session-2, session-1", games[0].SessionUUID, games[1].SessionUUID)
	}
}

func TestMemoryRepositoryRejectsDuplicateSession(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now()

	if _, err := repo.InsertGame(ctx, record(1, now)); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	if _, err := repo.InsertGame(ctx, record(1, now)); !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("err = %v, want ErrDuplicateGame", err)
	}
}

func TestMemoryRepositoryLimitLargerThanSize(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.InsertGame(ctx, record(1, time.Now())); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	games, err := repo.RecentGames(ctx, 50)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
}

func TestMemoryRepositoryCopiesRecords(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	rec := record(1, time.Now())
	if _, err := repo.InsertGame(ctx, rec); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	rec.MovesUCI[0] = "mutated"

	games, err := repo.RecentGames(ctx, 1)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if games[0].MovesUCI[0] != "e2e4" {
		t.Fatalf("stored record shares memory with caller: %v", games[0].MovesUCI)
	}
}
