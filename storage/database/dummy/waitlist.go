package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/waitlist"
)

type waitlistRepository struct {
	db *waitlistTable
}

var _ waitlist.Repository = (*waitlistRepository)(nil) // interface compliance check

func NewWaitlistRepository(db *DB) *waitlistRepository {
	return &waitlistRepository{db: db.waitlist}
}

func (repo *waitlistRepository) CreateEntry(ctx context.Context, entry waitlist.Entry, exec ...core.DBExecutor) (waitlist.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.db.table[entry.Email]; ok {
		return *existing, nil
	}
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	repo.db.table[entry.Email] = &entry
	return entry, nil
}

func (repo *waitlistRepository) QueryAllEntries(ctx context.Context, exec ...core.DBExecutor) ([]waitlist.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]waitlist.Entry, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries, nil
}
