package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
)

// CredentialStore is the persistence the auth service depends on.
type CredentialStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserName(ctx context.Context, id int64, firstName, lastName string) (*model.User, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	GetRole(ctx context.Context, id int64) (*model.Role, error)
}

// Service registers and authenticates users and issues bearer tokens.
type Service struct {
	users      CredentialStore
	tokens     *TokenIssuer
	bcryptCost int
	log        *logrus.Logger
}

// NewService creates a new auth service.
func NewService(users CredentialStore, tokens *TokenIssuer, bcryptCost int, log *logrus.Logger) *Service {
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// RegisterInput is the data accepted at registration. Either Name or
// FirstName/LastName may be given; either Role or RoleID selects the role.
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	FirstName string
	LastName  string
	Role      string
	RoleID    int64
}

// ProfileUpdate holds the mutable profile fields.
type ProfileUpdate struct {
	Name      string
	FirstName string
	LastName  string
}

// Session is returned by Register and Login.
type Session struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// NormalizeEmail trims and lower-cases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user unless the email is taken, then issues a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := NormalizeEmail(in.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apperr.Validation("Please enter a valid email")
	}
	if len(in.Password) < 6 {
		return nil, apperr.Validation("Password must be at least 6 characters long")
	}
	first, last := splitName(in.Name, in.FirstName, in.LastName)
	if first == "" {
		return nil, apperr.Validation("Name is required")
	}

	role, err := s.resolveRole(ctx, in.Role, in.RoleID)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		RoleID:       role.ID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	user.Role = *role

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role.Name}).Info("user registered")
	return s.newSession(user)
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		s.log.WithField("user_id", user.ID).Warn("login rejected: password mismatch")
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	return s.newSession(user)
}

// Verify validates a bearer token.
func (s *Service) Verify(token string) (*Identity, error) {
	return s.tokens.Verify(token)
}

// GetProfile returns the public projection of a user.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*model.PublicUser, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := user.Public()
	return &p, nil
}

// UpdateProfile changes the name fields of a user.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*model.PublicUser, error) {
	first, last := splitName(in.Name, in.FirstName, in.LastName)
	if first == "" {
		return nil, apperr.Validation("Name is required")
	}
	user, err := s.users.UpdateUserName(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}
	p := user.Public()
	return &p, nil
}

func (s *Service) resolveRole(ctx context.Context, name string, id int64) (*model.Role, error) {
	var (
		role *model.Role
		err  error
	)
	switch {
	case strings.TrimSpace(name) != "":
		role, err = s.users.GetRoleByName(ctx, strings.ToUpper(strings.TrimSpace(name)))
	case id > 0:
		role, err = s.users.GetRole(ctx, id)
	default:
		return nil, apperr.Validation("Valid role is required")
	}
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("Valid role is required")
	}
	return role, err
}

func (s *Service) newSession(user *model.User) (*Session, error) {
	token, _, err := s.tokens.Issue(Identity{UserID: user.ID, Role: user.Role.Name})
	if err != nil {
		return nil, fmt.Errorf("issue token for user %d: %w", user.ID, err)
	}
	return &Session{Token: token, User: user.Public()}, nil
}

// splitName prefers explicit first/last names and otherwise splits name at
// the first space.
func splitName(name, first, last string) (string, string) {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first != "" {
		return first, last
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", last
	}
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, last
}
