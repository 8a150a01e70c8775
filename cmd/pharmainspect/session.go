package main

import (
	"fmt"
	"strings"

	"github.com/poiesic/pharmainspect/core"
	"github.com/poiesic/pharmainspect/session"
	"github.com/urfave/cli/v2"
)

const defaultRole = core.RoleInspector

// withSessionStore opens the session database and runs fn with its store.
func withSessionStore(c *cli.Context, fn func(store *session.Store) error) error {
	db, err := openSession(c)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := db.NewSessionStore(c.Context)
	if err != nil {
		return err
	}
	return fn(store)
}

func loginCommand(c *cli.Context) error {
	return withSessionStore(c, func(store *session.Store) error {
		user, err := store.Login(c.Context, c.String("username"), c.String("password"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Logged in as %s (%s)\n", user.Name, user.Role)
		return nil
	})
}

func logoutCommand(c *cli.Context) error {
	return withSessionStore(c, func(store *session.Store) error {
		if err := store.Logout(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "Logged out")
		return nil
	})
}

func whoamiCommand(c *cli.Context) error {
	return withSessionStore(c, func(store *session.Store) error {
		user := store.CurrentUser()
		if user == nil {
			return errNotLoggedIn
		}
		printUser(c, user)
		return nil
	})
}

func listUsersCommand(c *cli.Context) error {
	return withSessionStore(c, func(store *session.Store) error {
		for _, user := range store.Users() {
			printUser(c, user)
		}
		return nil
	})
}

func addUserCommand(c *cli.Context) error {
	role := core.Role(strings.ToLower(c.String("role")))
	if role != core.RoleManager && role != core.RoleInspector {
		return fmt.Errorf("invalid role %q: must be one of manager, inspector", role)
	}

	return withSessionStore(c, func(store *session.Store) error {
		user, err := store.AddUser(c.Context, core.User{
			Username:                 c.String("username"),
			Password:                 c.String("password"),
			Name:                     c.String("name"),
			Role:                     role,
			AdministrativeWorkPlaces: c.StringSlice("workplace"),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Added user %s\n", user.ID)
		return nil
	})
}

func deleteUserCommand(c *cli.Context) error {
	id := core.ID(c.Args().First())
	if id.IsZero() {
		return fmt.Errorf("user id is required")
	}
	return withSessionStore(c, func(store *session.Store) error {
		if err := store.DeleteUser(c.Context, id); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Deleted user %s\n", id)
		return nil
	})
}

func printUser(c *cli.Context, user *core.User) {
	fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\t%s\t%s\n",
		user.ID, user.Username, user.Name, user.Role, strings.Join(user.AdministrativeWorkPlaces, ", "))
}
