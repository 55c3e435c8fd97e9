package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/trezcool/registrar/apps/devapi/echo"
	"github.com/trezcool/registrar/core"
	logsvc "github.com/trezcool/registrar/services/logger"
)

// devapi serves an in-memory stand-in of the registrar backend on DEVAPI_ADDRESS.
func main() {
	conf := core.NewConfig()
	std := log.New(os.Stderr, "DEVAPI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	db := echoapi.NewDB(0)
	if err := echoapi.Seed(db); err != nil {
		logger.Fatal("seeding", err)
	}

	app := echoapi.NewServer(&echoapi.Options{
		Address:         conf.DevAPI.Address,
		ProfileEndpoint: conf.DevAPI.ProfileEndpoint,
		Debug:           conf.Debug,
		DB:              db,
		Logger:          logger,
	})
	go app.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		logger.Error("stopping server", err)
	}
}
