package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/learnifyhq/learnify/apps/api/echo"
	"github.com/learnifyhq/learnify/core"
	"github.com/learnifyhq/learnify/core/assignment"
	"github.com/learnifyhq/learnify/core/catalog"
	"github.com/learnifyhq/learnify/core/enrollment"
	"github.com/learnifyhq/learnify/core/evaluation"
	"github.com/learnifyhq/learnify/core/resource"
	"github.com/learnifyhq/learnify/core/user"
	emailsvc "github.com/learnifyhq/learnify/services/email"
	logsvc "github.com/learnifyhq/learnify/services/logger"
	"github.com/learnifyhq/learnify/storage/database"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		defer cancel()
		if err = db.Close(ctx); err != nil {
			logger.Fatal("Failed to close", err)
		}
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), conf.Database.Timeout)
		if err = database.EnsureIndexes(ctx, db); err != nil {
			cancel()
			logger.Fatal(fmt.Sprintf("ensuring indexes: %v", err), err)
		}
		cancel()
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(database.NewUserRepository(db))
	catSvc := catalog.NewService(database.NewCatalogRepository(db), usrSvc, mailSvc, logger)
	enrSvc := enrollment.NewService(database.NewEnrollmentRepository(db), logger)
	asgSvc := assignment.NewService(database.NewAssignmentRepository(db), logger)
	evalSvc := evaluation.NewService(database.NewEvaluationRepository(db))
	resSvc := resource.NewService(database.NewResourceRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			CatalogSvc: catSvc,
			EnrollSvc:  enrSvc,
			AsgSvc:     asgSvc,
			EvalSvc:    evalSvc,
			ResSvc:     resSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
