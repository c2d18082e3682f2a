package main

import (
	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/user"
)

// addAccount creates a new login account.
func (cli *commandLine) addAccount(uname, name, pwd string) error {
	na := user.NewAccount{
		Username: core.CleanString(uname, true /* lower */),
		Name:     core.CleanString(name),
		Password: pwd,
	}
	if _, err := cli.usrSvc.Create(na); err != nil {
		return err
	}
	return nil
}
