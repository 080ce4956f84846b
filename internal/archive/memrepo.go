package archive

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/quietpawn/gambit/internal/domain"
)

// memrepo is an in-memory repository used when no database is configured.
type memrepo struct {
	mu sync.RWMutex

	nextID int64

	games     []*domain.GameRecord
	bySession map[string]*domain.GameRecord
}

func NewMemoryRepository() Repository {
	return &memrepo{
		bySession: make(map[string]*domain.GameRecord),
	}
}

func (m *memrepo) InsertGame(ctx context.Context, rec *domain.GameRecord) (int64, error) {
	if rec == nil {
		return 0, ErrDuplicateGame
	}

	key := strings.TrimSpace(rec.SessionUUID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySession[key]; exists {
		return 0, ErrDuplicateGame
	}

	m.nextID++
	copy := *rec
	copy.ID = m.nextID
	copy.MovesUCI = append([]string(nil), rec.MovesUCI...)

	m.games = append(m.games, &copy)
	m.bySession[key] = &copy

	return copy.ID, nil
}

func (m *memrepo) RecentGames(ctx context.Context, limit int) ([]*domain.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.games) == 0 {
		return []*domain.GameRecord{}, nil
	}

	items := append([]*domain.GameRecord(nil), m.games...)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	out := make([]*domain.GameRecord, 0, len(items))
	for _, g := range items {
		copy := *g
		out = append(out, &copy)
	}
	return out, nil
}
