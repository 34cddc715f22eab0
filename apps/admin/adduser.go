package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core/user"
)

// addUser creates an ADMIN user, or reactivates the user owning uname and sets pwd.
func (cli *commandLine) addUser(name, uname, email, pwd string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByLogin(ctx, uname)
	if err == nil {
		active := true
		uu := user.UpdateUser{IsActive: &active, Password: pwd, PasswordConfirm: pwd}
		if err = uu.Validate(usr, cli.validate); err != nil {
			return err
		}
		_, err = cli.usrSvc.Update(ctx, usr, uu)
		return err
	}
	if errors.Cause(err) != user.ErrNotFound {
		return err
	}

	if name == "" {
		name = uname
	}
	nu := user.NewUser{
		Name:            name,
		Email:           email,
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            user.RoleAdmin,
	}
	if err = nu.Validate(cli.validate); err != nil {
		return err
	}
	_, err = cli.usrSvc.Create(ctx, nu)
	return err
}
