package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/user"
)

const userColumns = `id, email, name, avatar_url, xp, level, rank_title, is_active, roles, password_hash, created_at, updated_at, last_login`

type userRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	Name         null.String    `db:"name"`
	AvatarURL    null.String    `db:"avatar_url"`
	XP           int            `db:"xp"`
	Level        int            `db:"level"`
	RankTitle    string         `db:"rank_title"`
	IsActive     null.Bool      `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name.String,
		AvatarURL:    r.AvatarURL.String,
		XP:           r.XP,
		Level:        r.Level,
		RankTitle:    r.RankTitle,
		IsActive:     r.IsActive.Ptr(),
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, exec ...core.DBExecutor) error {
	var exists bool
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &exists,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)`, email)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx,
		`INSERT INTO profiles (id, email, name, avatar_url, xp, level, rank_title, is_active, roles, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		usr.ID, usr.Email, null.NewString(usr.Name, usr.Name != ""), null.NewString(usr.AvatarURL, usr.AvatarURL != ""),
		usr.XP, usr.Level, usr.RankTitle, usr.Active(), pq.Array(usr.Roles), usr.PasswordHash,
		usr.CreatedAt.UTC(), usr.UpdatedAt.UTC(),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (user.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row,
		`SELECT `+userColumns+` FROM profiles WHERE id = $1`, id)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by ID")
	}
	return row.user(), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row,
		`SELECT `+userColumns+` FROM profiles WHERE email = $1`, email)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by email")
	}
	return row.user(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{usr.ID}
	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if usr.Name != "" {
		set("name", usr.Name)
	}
	if usr.AvatarURL != "" {
		set("avatar_url", usr.AvatarURL)
	}
	if usr.RankTitle != "" {
		set("rank_title", usr.RankTitle)
	}
	if usr.IsActive != nil {
		set("is_active", *usr.IsActive)
	}
	if len(usr.Roles) > 0 {
		set("roles", pq.Array(usr.Roles))
	}
	if len(usr.PasswordHash) > 0 {
		set("password_hash", usr.PasswordHash)
	}
	if !usr.LastLogin.IsZero() {
		set("last_login", usr.LastLogin.UTC())
	}

	var row userRow
	query := fmt.Sprintf(
		`UPDATE profiles SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), userColumns,
	)
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &row, query, args...); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "updating user")
	}
	return row.user(), nil
}

func (repo userRepository) PromoteUser(ctx context.Context, id string, level int, rankTitle string, exec ...core.DBExecutor) (bool, error) {
	// conditional update; a concurrent promote to the same or a higher level wins
	res, err := getExec(repo.db, exec).ExecContext(ctx,
		`UPDATE profiles SET level = $2, rank_title = $3, updated_at = NOW() WHERE id = $1 AND level < $2`,
		id, level, rankTitle,
	)
	if err != nil {
		return false, errors.Wrap(err, "promoting user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "promoting user")
	}
	return n > 0, nil
}

func (repo userRepository) QueryTopUsersByXP(ctx context.Context, limit int, exec ...core.DBExecutor) ([]user.User, error) {
	var rows []userRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT `+userColumns+` FROM profiles WHERE is_active ORDER BY xp DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying top users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.user())
	}
	return users, nil
}
