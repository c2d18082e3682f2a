package main

import (
	"log"
	"os"

	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/user"
	"github.com/kncumilla-crypto/attendance-system/services/logger"
	"github.com/kncumilla-crypto/attendance-system/storage/bundle"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up the store
	db, err := bundledb.Open(core.Conf.DataFile, logsvc.NewConsoleLogger(logger))
	errAndDie(err)

	// start CLI
	cli := commandLine{
		usrSvc: user.NewService(bundledb.NewUserRepository(db)),
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
