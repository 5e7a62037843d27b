package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByID(ctx context.Context, id string, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		// UpdateUser persists the non-zero fields of usr and returns the fresh row.
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// PromoteUser raises the stored level/rank title if - and only if - the
		// stored level is lower than the given one. Reports whether a row changed.
		PromoteUser(ctx context.Context, id string, level int, rankTitle string, exec ...core.DBExecutor) (bool, error)
		QueryTopUsersByXP(ctx context.Context, limit int, exec ...core.DBExecutor) ([]User, error)
	}

	// RankResolver derives a level and rank title from an XP total.
	RankResolver func(xp int) (level int, rankTitle string)

	Service struct {
		repo        Repository
		mailSvc     core.EmailService
		conf        *core.Config
		resolveRank RankResolver
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config, resolveRank RankResolver) *Service {
	return &Service{
		repo:        repo,
		mailSvc:     mailSvc,
		conf:        conf,
		resolveRank: resolveRank,
	}
}

// Register creates a new profile at the base rank.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := svc.repo.CheckEmailUniqueness(ctx, nu.Email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	now := time.Now().UTC()
	level, rankTitle := svc.resolveRank(0)
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		XP:        0,
		Level:     level,
		RankTitle: rankTitle,
		Roles:     []string{RoleLearner},
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetActive(true)
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, User{ID: usr.ID, LastLogin: usr.LastLogin})
}

func (svc *Service) UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error) {
	return svc.repo.UpdateUser(ctx, User{
		ID:        id,
		Name:      up.Name,
		AvatarURL: up.AvatarURL,
	})
}

// Leaderboard returns the top profiles ordered by XP, highest first.
func (svc *Service) Leaderboard(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 100 {
		limit = 100
	}
	return svc.repo.QueryTopUsersByXP(ctx, limit)
}

// RequestPasswordReset emails a signed reset link to the given address.
// The caller is expected to swallow ErrNotFound to avoid leaking which emails exist.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := MakeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}
	url := fmt.Sprintf("%s/password-reset/confirm?uid=%s&token=%s", svc.conf.FrontendBaseURL, EncodeUID(usr), token)

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:     "Password Reset",
		TextContent: fmt.Sprintf("Follow this link to set a new password: %s", url),
		HTMLContent: fmt.Sprintf(`<p>Follow <a href="%s">this link</a> to set a new password.</p>`, url),
	})
	return nil
}

// ResetPassword sets a new password after verifying the emailed token.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	uid, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	usr, err := svc.repo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return errors.Wrap(err, "finding user by ID")
	}

	if err = verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}

	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	_, err = svc.repo.UpdateUser(ctx, User{ID: usr.ID, PasswordHash: usr.PasswordHash})
	return errors.Wrap(err, "updating password")
}
