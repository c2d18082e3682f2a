package user_test

import (
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/kncumilla-crypto/attendance-system/core/user"
	"github.com/kncumilla-crypto/attendance-system/services/logger"
	"github.com/kncumilla-crypto/attendance-system/storage/bundle"
)

func setup(t *testing.T) *user.Service {
	db, err := bundledb.Open(
		filepath.Join(t.TempDir(), "attendance.json"),
		logsvc.NewConsoleLogger(log.New(ioutil.Discard, "", 0)),
	)
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	return user.NewService(bundledb.NewUserRepository(db))
}

func TestService_Create(t *testing.T) {
	svc := setup(t)
	user.NowFunc = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
	defer func() { user.NowFunc = time.Now }()

	usr, err := svc.Create(user.NewAccount{Username: " Registrar ", Name: " The Registrar ", Password: "0r1g!nalPwd"})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	if usr.Username != "registrar" || usr.Name != "The Registrar" {
		t.Errorf("Create() usr = %+v", usr)
	}
	if !usr.CreatedAt.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Create() createdAt = %v", usr.CreatedAt)
	}
	if err := usr.CheckPassword("0r1g!nalPwd"); err != nil {
		t.Error("Create() password not usable")
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}

	// duplicate username, case-insensitive
	if _, err := svc.Create(user.NewAccount{Username: "REGISTRAR", Name: "Copy Cat", Password: "An0ther!Pwd"}); err == nil {
		t.Error("Create() duplicate username: expected error")
	}
}

func TestService_GetByUsername(t *testing.T) {
	svc := setup(t)

	if _, err := svc.GetByUsername("ghost"); err != user.ErrNotFound {
		t.Errorf("GetByUsername() error = %v, want ErrNotFound", err)
	}

	if _, err := svc.Create(user.NewAccount{Username: "registrar", Name: "R", Password: "0r1g!nalPwd"}); err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	usr, err := svc.GetByUsername(" REGISTRAR ")
	if err != nil {
		t.Fatalf("GetByUsername() failed, %v", err)
	}
	if usr.Username != "registrar" {
		t.Errorf("GetByUsername() usr = %+v", usr)
	}
}

func TestService_SetLastLogin(t *testing.T) {
	svc := setup(t)
	stamp := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	user.NowFunc = func() time.Time { return stamp }
	defer func() { user.NowFunc = time.Now }()

	usr, err := svc.Create(user.NewAccount{Username: "registrar", Name: "R", Password: "0r1g!nalPwd"})
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	if usr.LoginCount != 0 || !usr.LastLogin.IsZero() {
		t.Fatalf("fresh account = %+v", usr)
	}

	usr, err = svc.SetLastLogin(usr)
	if err != nil {
		t.Fatalf("SetLastLogin() failed, %v", err)
	}
	usr, err = svc.SetLastLogin(usr)
	if err != nil {
		t.Fatalf("SetLastLogin() failed, %v", err)
	}
	if usr.LoginCount != 2 || !usr.LastLogin.Equal(stamp) {
		t.Errorf("SetLastLogin() usr = %+v", usr)
	}

	// persisted
	usr, err = svc.GetByUsername("registrar")
	if err != nil {
		t.Fatalf("GetByUsername() failed, %v", err)
	}
	if usr.LoginCount != 2 {
		t.Errorf("persisted loginCount = %d, want 2", usr.LoginCount)
	}
}

func TestService_ResetPassword(t *testing.T) {
	svc := setup(t)

	if _, err := svc.Create(user.NewAccount{Username: "registrar", Name: "R", Password: "0r1g!nalPwd"}); err != nil {
		t.Fatalf("Create() failed, %v", err)
	}

	if _, err := svc.ResetPassword("ghost", "N3w$ecret!"); err != user.ErrNotFound {
		t.Errorf("ResetPassword() unknown account error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ResetPassword("registrar", "weak"); err == nil {
		t.Error("ResetPassword() weak password: expected error")
	}

	usr, err := svc.ResetPassword("registrar", "N3w$ecret!")
	if err != nil {
		t.Fatalf("ResetPassword() failed, %v", err)
	}
	if err := usr.CheckPassword("N3w$ecret!"); err != nil {
		t.Error("ResetPassword() new password not usable")
	}
	if err := usr.CheckPassword("0r1g!nalPwd"); err == nil {
		t.Error("ResetPassword() old password still works")
	}
}
