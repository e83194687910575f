package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/learnifyhq/learnify/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, u := range repo.db.users {
		if u.UID == usr.UID || u.Email == usr.Email {
			return user.User{}, user.ErrUserExists
		}
	}
	usr.ID = repo.db.nextID()
	stored := usr
	repo.db.users[usr.ID] = &stored
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return idLess(users[i].ID, users[j].ID) })
	return users, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		return *u, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUID(ctx context.Context, uid string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, u := range repo.db.users {
		if u.UID == uid {
			return *u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsersByEmail(ctx context.Context, email string) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0)
	for _, u := range repo.db.users {
		if u.Email == email {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return idLess(users[i].ID, users[j].ID) })
	return users, nil
}

func (repo *userRepository) SearchUsers(ctx context.Context, term string) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	term = strings.ToLower(term)
	users := make([]user.User, 0)
	for _, u := range repo.db.users {
		if strings.Contains(strings.ToLower(u.Name), term) ||
			strings.Contains(strings.ToLower(u.Email), term) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return idLess(users[i].ID, users[j].ID) })
	return users, nil
}

func (repo *userRepository) SetUserRoleByID(ctx context.Context, id, role string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	u, ok := repo.db.users[id]
	if !ok || u.Role == role { // absent or nothing changed
		return user.ErrNotFound
	}
	u.Role = role
	return nil
}

func (repo *userRepository) SetUserRoleByEmail(ctx context.Context, email, role string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, u := range repo.db.users {
		if u.Email == email {
			if u.Role == role {
				return user.ErrNotFound
			}
			u.Role = role
			return nil
		}
	}
	return user.ErrNotFound
}
