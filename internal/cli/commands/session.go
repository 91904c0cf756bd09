package commands

import (
	"MediStock/internal/cli/bootstrap"
	"MediStock/internal/config"
	"context"
	"fmt"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and sign in" }
func (registerCmd) Usage() string       { return "register <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		if err := app.Session.SignUp(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Registered and signed in as %s\n", app.Session.State().Session.Identity())
		return nil
	})
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Sign in and store the auth token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		if err := app.Session.SignIn(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Signed in as %s\n", app.Session.State().Session.Identity())
		return nil
	})
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Sign out and forget the auth token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		if err := app.Session.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintln(Out, "Signed out")
		return nil
	})
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the signed-in user and backend" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(ctx, cfg, func(app *bootstrap.App) error {
		fmt.Fprintf(Out, "Backend: %s\n", app.Backend)
		u := app.Session.State().Session
		if u == nil {
			fmt.Fprintln(Out, "Not signed in")
			if last := app.Provider.LastEmail(); last != "" {
				fmt.Fprintf(Out, "Last signed in as %s\n", last)
			}
			return nil
		}
		fmt.Fprintf(Out, "Signed in as %s (uid %s)\n", u.Identity(), u.UID)
		return nil
	})
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
