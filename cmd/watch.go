package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display the live portfolio and edit it interactively" }
func (*watchCmd) Usage() string {
	return `pft watch

  Displays the portfolio and refreshes it periodically (see -refresh).
  Commands are read from the standard input:

` + replHelp
}
func (*watchCmd) SetFlags(*flag.FlagSet) {}

const replHelp = `  login <email> [password]       open a session
  register <email> [password]    create an account
  add <symbol> <quantity> <price> add a holding
  rm <id>                        remove a holding
  price <id> <price>             set the current price of a holding
  refresh                        fetch the holdings now
  logout                         close the session
  quit                           exit
`

func (*watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c, err := Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	store, err := tokenStore(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating session: %v\n", err)
		return subcommands.ExitFailure
	}
	app := folio.NewApp(folio.NewClient(c.APIURL, nil), store, c.Refresh)
	defer app.Close()

	in := bufio.NewReader(os.Stdin)
	s := &screen{w: os.Stdout, currency: c.Currency, clear: true}
	app.OnChange(s.render)
	if _, err := app.Resume(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	s.render(app.View())

	r := &repl{app: app, screen: s, password: func() (string, error) {
		if in.Buffered() == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
			return readPassword(os.Stdin, s.w, "Password: ")
		}
		return readLine(in, s.w, "Password: ")
	}}
	for {
		line, err := in.ReadString('\n')
		if line != "" {
			if quit := r.exec(ctx, line); quit {
				return subcommands.ExitSuccess
			}
		}
		if errors.Is(err, io.EOF) {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading commands: %v\n", err)
			return subcommands.ExitFailure
		}
	}
}

func readLine(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// screen redraws the view. It is called from the refresh loop and the
// command loop.
type screen struct {
	mu       sync.Mutex
	w        io.Writer
	currency string
	clear    bool
	note     string // local message, like a command typo.
	last     folio.View
}

func (s *screen) render(v folio.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = v
	s.draw()
}

// notify displays a local message below the view.
func (s *screen) notify(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.note = msg
	s.draw()
}

func (s *screen) draw() {
	var md string
	if s.last.LoggedIn {
		md = renderer.PortfolioMarkdown(s.last, s.currency)
	} else {
		md = renderer.AuthMarkdown(s.last.Err)
	}
	if s.clear {
		fmt.Fprint(s.w, "\033[H\033[2J")
	}
	fmt.Fprint(s.w, renderMarkdown(md))
	if s.note != "" {
		fmt.Fprintln(s.w, s.note)
	}
	fmt.Fprint(s.w, "> ")
}

// repl executes the watch commands.
type repl struct {
	app      *folio.App
	screen   *screen
	password func() (string, error)
}

// parseCommand splits a command line into its lower-cased name and arguments.
func parseCommand(line string) (name string, args []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// exec runs a command line and reports whether the loop must end.
// Failures of the App are displayed by the App itself.
func (r *repl) exec(ctx context.Context, line string) (quit bool) {
	name, args := parseCommand(line)
	r.screen.notify("")
	var err error
	switch name {
	case "":
	case "quit", "exit", "bye":
		return true
	case "help", "?":
		r.screen.notify("Commands:\n" + replHelp)
	case "login", "register":
		err = r.authenticate(ctx, name, args)
	case "logout":
		err = r.app.Logout()
	case "refresh":
		r.app.Refresh(ctx)
	case "add":
		if len(args) != 3 {
			err = errors.New("usage: add <symbol> <quantity> <price>")
			break
		}
		var req folio.HoldingRequest
		if req, err = folio.ParseHoldingRequest(args[0], args[1], args[2]); err == nil {
			r.app.Add(ctx, req)
		}
	case "rm", "remove":
		if len(args) != 1 {
			err = errors.New("usage: rm <id>")
			break
		}
		var id int64
		if id, err = parseID(args[0]); err == nil {
			r.app.Remove(ctx, id)
		}
	case "price":
		if len(args) != 2 {
			err = errors.New("usage: price <id> <price>")
			break
		}
		var id int64
		if id, err = parseID(args[0]); err != nil {
			break
		}
		var price decimal.Decimal
		if price, err = decimal.NewFromString(args[1]); err != nil {
			err = fmt.Errorf("invalid price %q", args[1])
			break
		}
		r.app.UpdatePrice(ctx, id, price)
	default:
		err = fmt.Errorf("unknown command %q, type 'help' for the list", name)
	}
	if err != nil {
		r.screen.notify(err.Error())
	}
	return false
}

func (r *repl) authenticate(ctx context.Context, name string, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: %s <email> [password]", name)
	}
	cr := folio.Credentials{Email: args[0]}
	if len(args) == 2 {
		cr.Password = args[1]
	} else {
		p, err := r.password()
		if err != nil {
			return err
		}
		cr.Password = p
	}
	if name == "register" {
		r.app.Register(ctx, cr)
	} else {
		r.app.Login(ctx, cr)
	}
	return nil
}
