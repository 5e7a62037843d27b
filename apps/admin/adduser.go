package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}

		now := time.Now().UTC()
		level, rankTitle := cli.resolver.Resolve(0)
		usr = user.User{
			Name:      name,
			Email:     email,
			Level:     level,
			RankTitle: rankTitle,
			Roles:     []string{user.RoleLearner},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AllRoles
		}
		usr.SetActive(true)
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.SetActive(true)
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.UpdateUser(ctx, user.User{
		ID:           usr.ID,
		Name:         name,
		Roles:        usr.Roles,
		IsActive:     usr.IsActive,
		PasswordHash: usr.PasswordHash,
	})
	return err
}
