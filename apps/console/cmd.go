package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/registrar/core/attendance"
	"github.com/trezcool/registrar/core/session"
	"github.com/trezcool/registrar/services/report"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type (
	sessionManager interface {
		Login(ctx context.Context, username, secret string) (session.Principal, error)
		Logout(ctx context.Context) error
		Register(ctx context.Context, req session.RegisterRequest) error
		Principal() (session.Principal, bool)
	}

	reportBuilder interface {
		Build(ctx context.Context, w attendance.Window) (*report.Report, error)
	}
)

type commandLine struct {
	session sessionManager
	reports reportBuilder
	out     io.Writer
}

type globalFlags struct {
	verbose bool
}

// parseGlobalFlags reads the flags placed before the command and returns the remaining args,
// program name first.
func parseGlobalFlags(args []string, out io.Writer) (globalFlags, []string, error) {
	var g globalFlags
	if len(args) == 0 {
		return g, args, nil
	}
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVar(&g.verbose, "v", false, "print logs to stderr")
	if err := fs.Parse(args[1:]); err != nil {
		return g, nil, errHelp
	}
	return g, append([]string{args[0]}, fs.Args()...), nil
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage: [-v] COMMAND")
	fmt.Fprintln(cli.out, "  login -username USERNAME                          - log in, the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                                            - log out and forget the stored session")
	fmt.Fprintln(cli.out, "  whoami                                            - print the logged-in user")
	fmt.Fprintln(cli.out, "  register -username USERNAME [-role ADMIN|STUDENT] - create an account, the password is prompted next")
	fmt.Fprintln(cli.out, "  report [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-timeline] [-hide-empty] [-json] - attendance report (admins only)")
}

func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginUname := loginCmd.String("username", "", "The username. The password will be prompted next.")

	logoutCmd := flag.NewFlagSet("logout", flag.ContinueOnError)
	whoamiCmd := flag.NewFlagSet("whoami", flag.ContinueOnError)

	registerCmd := flag.NewFlagSet("register", flag.ContinueOnError)
	registerUname := registerCmd.String("username", "", "The new account's username. The password will be prompted next.")
	registerRole := registerCmd.String("role", "", "ADMIN or STUDENT (default STUDENT)")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportFrom := reportCmd.String("from", "", "First day of the report, inclusive (YYYY-MM-DD)")
	reportTo := reportCmd.String("to", "", "Last day of the report, inclusive (YYYY-MM-DD)")
	reportTimeline := reportCmd.Bool("timeline", false, "Also print every record, most recent first")
	reportHideEmpty := reportCmd.Bool("hide-empty", false, "Hide students without any record in a course")
	reportJSON := reportCmd.Bool("json", false, "Print the report as JSON")

	for _, fs := range []*flag.FlagSet{loginCmd, logoutCmd, whoamiCmd, registerCmd, reportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(loginCmd)
		if err != nil {
			return err
		}
		return cli.login(ctx, *loginUname, pwd)

	case "logout":
		if err := logoutCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.logout(ctx)

	case "whoami":
		if err := whoamiCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.whoami()

	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *registerUname == "" {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(registerCmd)
		if err != nil {
			return err
		}
		return cli.register(ctx, session.RegisterRequest{Username: *registerUname, Password: pwd, Role: *registerRole})

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.report(ctx, *reportFrom, *reportTo, reportOptions{
			timeline:  *reportTimeline,
			hideEmpty: *reportHideEmpty,
			json:      *reportJSON,
		})

	default:
		cli.printUsage()
		return errHelp
	}
}
