// Package waitlist collects email signups from visitors waiting for access.
package waitlist

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
)

type (
	Entry struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}

	Signup struct {
		Email string `json:"email" validate:"required,email"`
	}

	Repository interface {
		// CreateEntry is idempotent: signing up an email that is already on the
		// list succeeds and returns the existing entry.
		CreateEntry(ctx context.Context, entry Entry, exec ...core.DBExecutor) (Entry, error)
		QueryAllEntries(ctx context.Context, exec ...core.DBExecutor) ([]Entry, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func (s *Signup) Validate(validate *validator.Validate) error {
	s.Email = core.CleanString(s.Email, true)
	return validate.Struct(s)
}

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Join puts the email on the waitlist and sends a confirmation.
func (svc *Service) Join(ctx context.Context, signup Signup) (Entry, error) {
	entry, err := svc.repo.CreateEntry(ctx, Entry{Email: signup.Email})
	if err != nil {
		return Entry{}, errors.Wrap(err, "creating waitlist entry")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: entry.Email}},
		Subject: fmt.Sprintf("You're on the %s waitlist", svc.conf.AppName),
		TextContent: fmt.Sprintf(
			"Thanks for your interest in %s! We'll let you know as soon as a spot opens up.",
			svc.conf.AppName,
		),
	})
	return entry, nil
}

// Entries lists everyone on the waitlist, oldest first.
func (svc *Service) Entries(ctx context.Context) ([]Entry, error) {
	return svc.repo.QueryAllEntries(ctx)
}
