package main

func (cli *commandLine) resetPassword(uname, pwd string) error {
	if _, err := cli.usrSvc.ResetPassword(uname, pwd); err != nil {
		return err
	}
	return nil
}
