package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	return users
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, exec ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.ID = uuid.New().String()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if usr.Name != "" {
		stored.Name = usr.Name
	}
	if usr.AvatarURL != "" {
		stored.AvatarURL = usr.AvatarURL
	}
	if usr.RankTitle != "" {
		stored.RankTitle = usr.RankTitle
	}
	if usr.IsActive != nil {
		stored.IsActive = usr.IsActive
	}
	if len(usr.Roles) > 0 {
		stored.Roles = usr.Roles
	}
	if len(usr.PasswordHash) > 0 {
		stored.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		stored.LastLogin = usr.LastLogin
	}
	stored.UpdatedAt = time.Now().UTC()
	return *stored, nil
}

func (repo *userRepository) PromoteUser(ctx context.Context, id string, level int, rankTitle string, exec ...core.DBExecutor) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[id]
	if !ok || stored.Level >= level {
		return false, nil
	}
	stored.Level = level
	stored.RankTitle = rankTitle
	stored.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (repo *userRepository) QueryTopUsersByXP(ctx context.Context, limit int, exec ...core.DBExecutor) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0, len(repo.db.table))
	for _, usr := range repo.query() {
		if usr.Active() {
			users = append(users, usr)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].XP != users[j].XP {
			return users[i].XP > users[j].XP
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// AddUserXP bumps a user's XP in place. Test helper; the real award path goes
// through the quiz repository's transaction.
func (repo *userRepository) AddUserXP(id string, delta int) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if stored, ok := repo.db.table[id]; ok {
		stored.XP += delta
	}
}
