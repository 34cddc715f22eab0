package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	logsvc "github.com/sudais-khan12/LMS-sub002/services/logger"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
	sqlxrepos "github.com/sudais-khan12/LMS-sub002/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	conf.LogLevel = "warn"

	logger, err := logsvc.NewZapLogger(conf, "admin")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db.DB,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db), nil, conf),
		validate:   validate,
		translator: translator,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	logger.Sync()
	if err != nil {
		if err != errHelp {
			fmt.Printf("\nerror: %s\n", cli.describe(err))
		}
		os.Exit(1)
	}
}
