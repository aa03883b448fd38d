package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// MemoryUserRepository serves provisioned users from memory.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserRepository constructs the repository with the given users.
func NewMemoryUserRepository(users []models.User) *MemoryUserRepository {
	repo := &MemoryUserRepository{users: make(map[string]models.User, len(users))}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

// FindByEmail returns a user by email address, ignoring case.
func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

// FindByID returns a user by identifier.
func (r *MemoryUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

// List returns every user ordered by name.
func (r *MemoryUserRepository) List(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	r.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// SetRole replaces a user's role, mirroring an external provisioning change.
func (r *MemoryUserRepository) SetRole(id string, role models.UserRole) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return false
	}
	user.Role = role
	r.users[id] = user
	return true
}
