package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sakif/sweet-shop/internal/apperror"
	"github.com/sakif/sweet-shop/internal/model"
	"github.com/sakif/sweet-shop/internal/repository"
)

// mockSweetRepo is an in-memory SweetRepository. All methods take the lock,
// so DecrementStock's check-and-decrement is atomic just like the real
// store's guarded UPDATE.
type mockSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]*model.Sweet
	nextID int
}

var _ repository.SweetRepository = (*mockSweetRepo)(nil)

func newMockSweetRepo() *mockSweetRepo {
	return &mockSweetRepo{sweets: make(map[string]*model.Sweet)}
}

func (m *mockSweetRepo) Create(_ context.Context, sweet *model.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sweets {
		if existing.Name == sweet.Name {
			return apperror.Conflict("sweet with this name already exists")
		}
	}
	m.nextID++
	sweet.ID = fmt.Sprintf("sweet-%d", m.nextID)
	sweet.CreatedAt = time.Now().UTC()
	sweet.UpdatedAt = sweet.CreatedAt
	cp := *sweet
	m.sweets[sweet.ID] = &cp
	return nil
}

func (m *mockSweetRepo) GetByID(_ context.Context, id string) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, apperror.NotFound("sweet", id)
	}
	cp := *sweet
	return &cp, nil
}

func (m *mockSweetRepo) GetByName(_ context.Context, name string) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sweet := range m.sweets {
		if sweet.Name == name {
			cp := *sweet
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("sweet", name)
}

func (m *mockSweetRepo) List(_ context.Context, filter repository.SweetFilter) ([]model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Sweet
	for _, sweet := range m.sweets {
		if filter.Name != "" && !strings.Contains(strings.ToLower(sweet.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Category != "" && sweet.Category != filter.Category {
			continue
		}
		if filter.MinPrice != nil && sweet.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && sweet.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, *sweet)
	}
	return out, nil
}

func (m *mockSweetRepo) Update(_ context.Context, sweet *model.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[sweet.ID]; !ok {
		return apperror.NotFound("sweet", sweet.ID)
	}
	for id, existing := range m.sweets {
		if id != sweet.ID && existing.Name == sweet.Name {
			return apperror.Conflict("sweet with this name already exists")
		}
	}
	sweet.UpdatedAt = time.Now().UTC()
	cp := *sweet
	m.sweets[sweet.ID] = &cp
	return nil
}

func (m *mockSweetRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sweets[id]; !ok {
		return apperror.NotFound("sweet", id)
	}
	delete(m.sweets, id)
	return nil
}

func (m *mockSweetRepo) DecrementStock(_ context.Context, id string, qty int) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, apperror.NotFound("sweet", id)
	}
	if sweet.Quantity < qty {
		return nil, apperror.InsufficientStock(sweet.Quantity, qty)
	}
	sweet.Quantity -= qty
	sweet.UpdatedAt = time.Now().UTC()
	cp := *sweet
	return &cp, nil
}

func (m *mockSweetRepo) IncrementStock(_ context.Context, id string, qty int) (*model.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sweet, ok := m.sweets[id]
	if !ok {
		return nil, apperror.NotFound("sweet", id)
	}
	sweet.Quantity += qty
	sweet.UpdatedAt = time.Now().UTC()
	cp := *sweet
	return &cp, nil
}

// mockUserRepo is an in-memory UserRepository for the auth service tests.
type mockUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return apperror.Conflict("user with this email or username already exists")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	cp := *user
	return &cp, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}
