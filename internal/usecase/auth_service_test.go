package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]user.User)}
}

func (r *memUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	return u, ok, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *memUserRepo) List(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return errors.New("user not found")
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) UpdateStatus(_ context.Context, id int64, status user.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.Status = status
	r.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeTokenIssuer struct {
	issued int
}

func (f *fakeTokenIssuer) Issue(_ context.Context, principal user.Principal) (string, time.Time, error) {
	f.issued++
	return "token-for-" + principal.Email, time.Now().Add(time.Hour), nil
}

func newTestAuthService(repo *memUserRepo) (*AuthService, *fakeTokenIssuer) {
	issuer := &fakeTokenIssuer{}
	// Lowest bcrypt cost keeps the hash rounds cheap in tests.
	return NewAuthService(repo, issuer, 4), issuer
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	t.Parallel()

	repo := newMemUserRepo()
	svc, issuer := newTestAuthService(repo)

	created, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    "  Ana@Example.COM ",
		Password: "correcthorse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Status != user.StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}

	// Pending accounts cannot sign in.
	_, err = svc.Login(context.Background(), "ana@example.com", "correcthorse")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for pending account, got %v", err)
	}

	if err := repo.UpdateStatus(context.Background(), created.ID, user.StatusActive); err != nil {
		t.Fatalf("activate: %v", err)
	}

	result, err := svc.Login(context.Background(), "ana@example.com", "correcthorse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" || issuer.issued != 1 {
		t.Fatalf("expected issued token, got %q issued=%d", result.Token, issuer.issued)
	}

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-password")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad password, got %v", err)
	}
	_, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown email, got %v", err)
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(newMemUserRepo())

	cases := []RegisterInput{
		{Name: "", Email: "a@b.com", Password: "longenough"},
		{Name: "Ana", Email: "", Password: "longenough"},
		{Name: "Ana", Email: "a@b.com", Password: "short"},
	}
	for i, input := range cases {
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestAuthService(newMemUserRepo())
	input := RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "correcthorse"}

	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate email, got %v", err)
	}
}

func TestAuthServiceAdminUserManagement(t *testing.T) {
	t.Parallel()

	repo := newMemUserRepo()
	svc, _ := newTestAuthService(repo)

	admin := user.Principal{UserID: 99, Role: user.RoleAdmin}
	editor := user.Principal{UserID: 50, Role: user.RoleEditor}

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{Actor: editor, Name: "X", Email: "x@y.com", Password: "longenough"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin create, got %v", err)
	}

	created, err := svc.CreateUser(context.Background(), CreateUserInput{
		Actor:        admin,
		Name:         "Luis",
		Email:        "luis@example.com",
		Password:     "longenough",
		Capabilities: []user.Capability{user.CapabilityDuelazo},
	})
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if created.Status != user.StatusActive || created.Role != user.RoleEditor {
		t.Fatalf("unexpected created user: %+v", created)
	}

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Actor: admin, Name: "Bad", Email: "bad@example.com", Password: "longenough",
		Capabilities: []user.Capability{"warehouse"},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown capability, got %v", err)
	}

	updated, err := svc.UpdateUser(context.Background(), UpdateUserInput{
		Actor:        admin,
		UserID:       created.ID,
		Role:         user.RoleAdmin,
		Status:       user.StatusSuspended,
		Capabilities: []user.Capability{user.CapabilityStyly},
	})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Role != user.RoleAdmin || updated.Status != user.StatusSuspended {
		t.Fatalf("unexpected updated user: %+v", updated)
	}
	if len(updated.Capabilities) != 1 || updated.Capabilities[0] != user.CapabilityStyly {
		t.Fatalf("unexpected capabilities: %+v", updated.Capabilities)
	}

	if err := svc.DeleteUser(context.Background(), admin, admin.UserID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-delete, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, created.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, found, _ := repo.GetByID(context.Background(), created.ID); found {
		t.Fatal("expected user removed")
	}

	if _, err := svc.ListUsers(context.Background(), editor); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin list, got %v", err)
	}
}
