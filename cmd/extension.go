package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/etnz/folio/config"
	"github.com/google/subcommands"
)

// EnvVerbose tells extensions that -v was set.
const EnvVerbose = "FOLIO_VERBOSE"

// IsCommand reports whether name is a subcommand registered in c.
func IsCommand(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// RunExtension attempts to find and execute an external pft-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The effective settings are passed to the extension as FOLIO_ environment
// variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "pft-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if c, err := Settings(); err == nil {
		cmd.Env = append(cmd.Env, extensionEnv(c)...)
	}
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

func extensionEnv(c config.Config) []string {
	env := []string{
		config.EnvAPIURL + "=" + c.APIURL,
		config.EnvCurrency + "=" + c.Currency,
		config.EnvRefresh + "=" + c.Refresh.String(),
		config.EnvTracing + "=" + strconv.FormatBool(c.Tracing),
	}
	if c.TokenFile != "" {
		env = append(env, config.EnvTokenFile+"="+c.TokenFile)
	}
	return env
}
