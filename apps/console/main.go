package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/session"
	logsvc "github.com/trezcool/registrar/services/logger"
	recordsvc "github.com/trezcool/registrar/services/records"
	"github.com/trezcool/registrar/services/report"
	"github.com/trezcool/registrar/services/transport"
	"github.com/trezcool/registrar/storage/credstore"
)

func main() {
	globals, args, err := parseGlobalFlags(os.Args, os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	conf := core.NewConfig()
	std := log.New(os.Stderr, "CONSOLE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)
	if !(globals.verbose || conf.Verbose) {
		// keep the terminal for command output
		std.SetOutput(io.Discard)
	}

	store := credstore.Open(conf, logger)
	defer func() { _ = store.Close() }()

	sess := session.NewManager(store, transport.NewClient(conf), logger)
	records := recordsvc.NewClient(sess.Gateway())
	cli := commandLine{
		session: sess,
		reports: report.NewBuilder(records, sess, logger),
		out:     os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.run(ctx, args); err != nil {
		if err != errHelp {
			std.SetOutput(os.Stderr)
			std.Printf("error: %s\n", err)
		}
		stop()
		_ = store.Close()
		os.Exit(1)
	}
}
