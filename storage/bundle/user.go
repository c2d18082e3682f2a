package bundledb

import (
	"github.com/kncumilla-crypto/attendance-system/core/user"
)

// userRepository implements user.Repository over the bundle.
type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.index(username) >= 0 {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo *userRepository) CreateAccount(usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.index(usr.Username) >= 0 {
		return user.User{}, user.ErrUsernameExists
	}
	repo.db.users = append(repo.db.users, usr)
	if err := repo.db.save(); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllAccounts() ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return append([]user.User(nil), repo.db.users...), nil
}

func (repo *userRepository) GetAccountByUsername(username string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if i := repo.index(username); i >= 0 {
		return repo.db.users[i], nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateAccount(usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(usr.Username)
	if i < 0 {
		return user.User{}, user.ErrNotFound
	}
	repo.db.users[i] = usr
	if err := repo.db.save(); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

// index returns the position of an account by username, or -1. Callers hold db.mu.
func (repo *userRepository) index(username string) int {
	for i, usr := range repo.db.users {
		if usr.Username == username {
			return i
		}
	}
	return -1
}
