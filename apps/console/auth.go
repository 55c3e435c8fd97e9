package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/session"
)

var errNotLoggedIn = errors.New("not logged in")

func (cli *commandLine) login(ctx context.Context, uname, pwd string) error {
	p, err := cli.session.Login(ctx, uname, pwd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s\n", describe(p))
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	p, ok := cli.session.Principal()
	if !ok {
		return errNotLoggedIn
	}
	fmt.Fprintln(cli.out, describe(p))
	return nil
}

func (cli *commandLine) register(ctx context.Context, req session.RegisterRequest) error {
	if err := cli.session.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Registered %s, you can now log in\n", strings.TrimSpace(req.Username))
	return nil
}

func describe(p session.Principal) string {
	s := fmt.Sprintf("%s (%s)", p.Username, strings.Join(p.Roles, ", "))
	if p.IsFallback() {
		s += " [profile unavailable, roles inferred]"
	}
	return s
}
