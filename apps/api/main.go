package main

import (
	"log"
	"os"

	"github.com/kncumilla-crypto/attendance-system/apps/api/echo"
	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/backup"
	"github.com/kncumilla-crypto/attendance-system/core/course"
	"github.com/kncumilla-crypto/attendance-system/core/user"
	"github.com/kncumilla-crypto/attendance-system/services/email"
	"github.com/kncumilla-crypto/attendance-system/services/logger"
	"github.com/kncumilla-crypto/attendance-system/storage/bundle"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up logger
	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = logsvc.NewConsoleLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up the store
	db, err := bundledb.Open(core.Conf.DataFile, appLogger)
	errAndDie(std, err)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}
	crsSvc := course.NewService(bundledb.NewCourseRepository(db), mailSvc, appLogger)
	usrSvc := user.NewService(bundledb.NewUserRepository(db))
	bkpSvc := backup.NewService(db, appLogger)

	if core.Conf.DemoData {
		if err := seedDemoCourses(crsSvc, appLogger); err != nil {
			errAndDie(std, err)
		}
	}

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:   core.Conf.Address(),
			CourseSvc: crsSvc,
			UserSvc:   usrSvc,
			BackupSvc: bkpSvc,
			Logger:    appLogger,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
