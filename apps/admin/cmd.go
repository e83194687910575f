package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/user"
	"github.com/learnifyhq/learnify/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *database.DB
	usrSvc *user.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  ensureindexes - create the unique indexes the workflow engine relies on")
	fmt.Println("  promoteteacher -email EMAIL - promote the user owning EMAIL to teacher")
	fmt.Println("  makeadmin -id ID - promote the user with ID to admin")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	promoteCmd := flag.NewFlagSet("promoteteacher", flag.ExitOnError)
	promoteEmail := promoteCmd.String("email", "", "The user's email.")

	makeAdminCmd := flag.NewFlagSet("makeadmin", flag.ExitOnError)
	makeAdminID := makeAdminCmd.String("id", "", "The user's id.")

	ctx := context.Background()

	switch args[1] {
	case "ensureindexes":
		return database.EnsureIndexes(ctx, cli.db)
	case "promoteteacher":
		if err := promoteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *promoteEmail == "" {
			promoteCmd.Usage()
			return errHelp
		}
		return cli.usrSvc.PromoteTeacherByEmail(ctx, core.CleanString(*promoteEmail, true /* lower */))
	case "makeadmin":
		if err := makeAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *makeAdminID == "" {
			makeAdminCmd.Usage()
			return errHelp
		}
		return cli.usrSvc.MakeAdmin(ctx, *makeAdminID)
	default:
		cli.printUsage()
		return errHelp
	}
}
