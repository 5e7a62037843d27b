package progression

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core/user"
)

var (
	// ErrForbidden is returned when a caller tries to touch another user's progression.
	ErrForbidden = errors.New("cannot update another user's progression")
)

type (
	// LevelUp reports the outcome of a level recomputation.
	LevelUp struct {
		LeveledUp        bool   `json:"leveled_up"`
		OldLevel         int    `json:"old_level,omitempty"`
		NewLevel         int    `json:"new_level,omitempty"`
		NewRankTitle     string `json:"new_rank_title,omitempty"`
		CurrentLevel     int    `json:"current_level,omitempty"`
		CurrentRankTitle string `json:"current_rank_title,omitempty"`
	}

	Service struct {
		repo     user.Repository
		resolver *Resolver
	}
)

func NewService(repo user.Repository, resolver *Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (svc *Service) Resolver() *Resolver {
	return svc.resolver
}

// Recompute re-derives the actor's level from their current XP total and
// persists it when it went up. The stored level is a ratchet: the conditional
// promote never lowers it, and recomputing with unchanged XP is a no-op.
func (svc *Service) Recompute(ctx context.Context, userID string, actor user.User) (LevelUp, error) {
	if actor.ID != userID {
		return LevelUp{}, ErrForbidden
	}

	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return LevelUp{}, err
		}
		return LevelUp{}, errors.Wrap(err, "finding user by ID")
	}

	level, rankTitle := svc.resolver.Resolve(usr.XP)
	if level <= usr.Level {
		return LevelUp{
			LeveledUp:        false,
			CurrentLevel:     usr.Level,
			CurrentRankTitle: usr.RankTitle,
		}, nil
	}

	promoted, err := svc.repo.PromoteUser(ctx, userID, level, rankTitle)
	if err != nil {
		return LevelUp{}, errors.Wrap(err, "promoting user")
	}
	if !promoted {
		// lost the promote race to a concurrent recompute; the profile
		// already carries at least this level
		return LevelUp{
			LeveledUp:        false,
			CurrentLevel:     level,
			CurrentRankTitle: rankTitle,
		}, nil
	}

	return LevelUp{
		LeveledUp:    true,
		OldLevel:     usr.Level,
		NewLevel:     level,
		NewRankTitle: rankTitle,
	}, nil
}
