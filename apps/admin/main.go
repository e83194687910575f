package main

import (
	"context"
	"log"
	"os"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/user"
	"github.com/learnifyhq/learnify/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()
		errAndDie(db.Close(ctx))
	}()

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(database.NewUserRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
