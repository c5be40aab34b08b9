package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
	"golang.org/x/term"
)

// loginCmd logs in, or registers a new account.
type loginCmd struct {
	register bool
	email    string
	password string
}

func (c *loginCmd) Name() string {
	if c.register {
		return "register"
	}
	return "login"
}

func (c *loginCmd) Synopsis() string {
	if c.register {
		return "create an account and open a session"
	}
	return "open a session"
}

func (c *loginCmd) Usage() string {
	return fmt.Sprintf(`pft %s -e <email> [-p <password>]

  Exchanges the credentials for a session token, stored in the user config
  directory. The password is prompted for when -p is missing.
`, c.Name())
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "e", "", "email of the account")
	f.StringVar(&c.password, "p", "", "password of the account (at least 6 characters)")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fmt.Fprintln(os.Stderr, "Error: -e <email> is required")
		return subcommands.ExitUsageError
	}
	if c.password == "" {
		p, err := readPassword(os.Stdin, os.Stderr, "Password: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return subcommands.ExitFailure
		}
		c.password = p
	}

	app, _, status := openApp(ctx, false)
	if status != subcommands.ExitSuccess {
		return status
	}
	defer app.Close()

	cr := folio.Credentials{Email: c.email, Password: c.password}
	c.password = ""
	auth := app.Login
	if c.register {
		auth = app.Register
	}
	if err := auth(ctx, cr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", app.View().Err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Logged in as %s\n", cr.Email)
	return subcommands.ExitSuccess
}

// readPassword reads a line from in without echo when it is a terminal.
func readPassword(in *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	if term.IsTerminal(int(in.Fd())) {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "close the session" }
func (*logoutCmd) Usage() string {
	return `pft logout

  Deletes the stored session token.
`
}
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, status := openApp(ctx, false)
	if status != subcommands.ExitSuccess {
		return status
	}
	if err := app.Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Logged out")
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "display the session's user" }
func (*whoamiCmd) Usage() string {
	return `pft whoami

  Displays the user and expiry of the stored session token.
`
}
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, _, status := openApp(ctx, true)
	if status != subcommands.ExitSuccess {
		return status
	}
	claims, err := app.Session().Claims()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(claims.Subject)
	if !claims.ExpiresAt.IsZero() {
		fmt.Printf("session expires %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return subcommands.ExitSuccess
}
