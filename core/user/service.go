package user

import (
	"errors"
	"time"

	"github.com/kncumilla-crypto/attendance-system/core"
)

var (
	// errors
	ErrNotFound       = errors.New("account not found")
	ErrUsernameExists = errors.New("an account with this username already exists")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CheckUsernameUniqueness(username string) error
		CreateAccount(usr User) (User, error)
		QueryAllAccounts() ([]User, error)
		// GetAccountByUsername expects a cleaned, lowercased username.
		GetAccountByUsername(username string) (User, error)
		UpdateAccount(usr User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(na NewAccount) (User, error) {
	if err := na.Validate(); err != nil {
		return User{}, err
	}
	uname := core.CleanString(na.Username, true /* lower */)
	if err := svc.repo.CheckUsernameUniqueness(uname); err != nil {
		if err == ErrUsernameExists {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return User{}, err
	}
	usr := User{
		Username:  uname,
		Name:      core.CleanString(na.Name),
		CreatedAt: NowFunc().UTC(),
	}
	if err := usr.SetPassword(na.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateAccount(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllAccounts()
}

func (svc *Service) GetByUsername(uname string) (User, error) {
	return svc.repo.GetAccountByUsername(core.CleanString(uname, true /* lower */))
}

// SetLastLogin stamps a successful login and bumps the login counter.
func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = NowFunc().UTC()
	usr.LoginCount++
	return svc.repo.UpdateAccount(usr)
}

func (svc *Service) ResetPassword(uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(uname)
	if err != nil {
		return User{}, err
	}
	if err := (PasswordReset{Username: usr.Username, Password: pwd}).Validate(); err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	return svc.repo.UpdateAccount(usr)
}
