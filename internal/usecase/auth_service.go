package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

// TokenIssuer mints access tokens for authenticated principals.
type TokenIssuer interface {
	Issue(ctx context.Context, principal user.Principal) (token string, expiresAt time.Time, err error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type CreateUserInput struct {
	Actor        user.Principal
	Name         string
	Email        string
	Password     string
	Role         user.Role
	Capabilities []user.Capability
}

type UpdateUserInput struct {
	Actor        user.Principal
	UserID       int64
	Name         string
	Role         user.Role
	Capabilities []user.Capability
	Status       user.Status
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}

type AuthService struct {
	users      user.Repository
	tokens     TokenIssuer
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users user.Repository, tokens TokenIssuer, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates a pending account. An admin has to activate it before the
// user can sign in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Name == "" {
		return user.User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Email == "" {
		return user.User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return user.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	if _, exists, err := s.users.GetByEmail(ctx, input.Email); err != nil {
		return user.User{}, fmt.Errorf("check existing email: %w", err)
	} else if exists {
		return user.User{}, fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         user.RoleEditor,
		Status:       user.StatusPending,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Login")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	u, found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get user by email: %w", err)
	}
	if !found {
		return LoginResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if u.Status != user.StatusActive {
		return LoginResult{}, fmt.Errorf("%w: account is not active", ErrForbidden)
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.Principal{
		UserID:       u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Capabilities: u.Capabilities,
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func (s *AuthService) Me(ctx context.Context, actor user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.Me")
	defer span.End()

	u, found, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user %d", ErrNotFound, actor.UserID)
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context, actor user.Principal) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.ListUsers")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser is the admin path: the account is born active with whatever
// role and capabilities the admin hands it.
func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.CreateUser")
	defer span.End()

	if !input.Actor.IsAdmin() {
		return user.User{}, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if input.Name == "" || input.Email == "" {
		return user.User{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return user.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	role := input.Role
	if role == "" {
		role = user.RoleEditor
	}
	if role != user.RoleAdmin && role != user.RoleEditor {
		return user.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	for _, c := range input.Capabilities {
		if _, ok := user.ParseCapability(string(c)); !ok {
			return user.User{}, fmt.Errorf("%w: unknown capability %q", ErrInvalidInput, c)
		}
	}

	if _, exists, err := s.users.GetByEmail(ctx, input.Email); err != nil {
		return user.User{}, fmt.Errorf("check existing email: %w", err)
	} else if exists {
		return user.User{}, fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Capabilities: input.Capabilities,
		Status:       user.StatusActive,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AuthService) UpdateUser(ctx context.Context, input UpdateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "AuthService.UpdateUser")
	defer span.End()

	if !input.Actor.IsAdmin() {
		return user.User{}, fmt.Errorf("%w: admin role required", ErrForbidden)
	}

	u, found, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user for update: %w", err)
	}
	if !found {
		return user.User{}, fmt.Errorf("%w: user %d", ErrNotFound, input.UserID)
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		u.Name = name
	}
	if input.Role != "" {
		if input.Role != user.RoleAdmin && input.Role != user.RoleEditor {
			return user.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
		}
		u.Role = input.Role
	}
	if input.Capabilities != nil {
		for _, c := range input.Capabilities {
			if _, ok := user.ParseCapability(string(c)); !ok {
				return user.User{}, fmt.Errorf("%w: unknown capability %q", ErrInvalidInput, c)
			}
		}
		u.Capabilities = input.Capabilities
	}
	if input.Status != "" {
		switch input.Status {
		case user.StatusPending, user.StatusActive, user.StatusSuspended:
			u.Status = input.Status
		default:
			return user.User{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
		}
	}

	if err := s.users.Update(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, actor user.Principal, userID int64) error {
	ctx, span := startUsecaseSpan(ctx, "AuthService.DeleteUser")
	defer span.End()

	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	if actor.UserID == userID {
		return fmt.Errorf("%w: admins cannot delete their own account", ErrInvalidInput)
	}

	_, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user for delete: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
