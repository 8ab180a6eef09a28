package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// registerCmd creates a new account.
type registerCmd struct{}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create a new account" }
func (*registerCmd) Usage() string {
	return `valutahub register <username> <password>

  Creates a new account with an empty portfolio. Registration does not log
  you in; use the login command afterwards.
`
}
func (*registerCmd) SetFlags(f *flag.FlagSet) {}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return run("register", func(app *App) error {
		info, err := app.Ledger.Register(f.Arg(0), f.Arg(1))
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s (id %d). You can now login.\n", info.Username, info.UserID)
		return nil
	})
}

// loginCmd opens a session.
type loginCmd struct{}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and open a session" }
func (*loginCmd) Usage() string {
	return `valutahub login <username> <password>

  Verifies the credentials and opens a session. Any previous session is
  replaced.
`
}
func (*loginCmd) SetFlags(f *flag.FlagSet) {}

func (c *loginCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return run("login", func(app *App) error {
		info, err := app.Ledger.Login(f.Arg(0), f.Arg(1))
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s.\n", info.Username)
		return nil
	})
}

// logoutCmd clears the session.
type logoutCmd struct{}

func (*logoutCmd) Name() string             { return "logout" }
func (*logoutCmd) Synopsis() string         { return "log out and clear the session" }
func (*logoutCmd) Usage() string            { return "valutahub logout\n" }
func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run("logout", func(app *App) error {
		if err := app.Ledger.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	})
}

// whoamiCmd shows the logged-in user.
type whoamiCmd struct{}

func (*whoamiCmd) Name() string             { return "whoami" }
func (*whoamiCmd) Synopsis() string         { return "show the current session" }
func (*whoamiCmd) Usage() string            { return "valutahub whoami\n" }
func (*whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (c *whoamiCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run("whoami", func(app *App) error {
		info, err := app.Ledger.CurrentUser()
		if err != nil {
			return err
		}
		if info == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s (id %d), registered %s\n",
			info.Username, info.UserID, info.RegisteredAt.Format("2006-01-02"))
		return nil
	})
}

// passwdCmd changes the logged-in user's password.
type passwdCmd struct{}

func (*passwdCmd) Name() string     { return "passwd" }
func (*passwdCmd) Synopsis() string { return "change the current user's password" }
func (*passwdCmd) Usage() string {
	return `valutahub passwd <current-password> <new-password>
`
}
func (*passwdCmd) SetFlags(f *flag.FlagSet) {}

func (c *passwdCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return run("passwd", func(app *App) error {
		if err := app.Ledger.ChangePassword(f.Arg(0), f.Arg(1)); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	})
}
