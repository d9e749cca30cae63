package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campus-backend/internal/apperr"
	"campus-backend/internal/model"
	"campus-backend/internal/testutil"
)

// memCredentials is an in-memory CredentialStore.
type memCredentials struct {
	users  map[int64]*model.User
	roles  []model.Role
	nextID int64
}

func newMemCredentials() *memCredentials {
	m := &memCredentials{users: map[int64]*model.User{}}
	for i, name := range model.DefaultRoles {
		m.roles = append(m.roles, model.Role{ID: int64(i + 1), Name: name})
	}
	return m
}

func (m *memCredentials) CreateUser(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("User already exists")
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memCredentials) withRole(u *model.User) *model.User {
	cp := *u
	for _, r := range m.roles {
		if r.ID == cp.RoleID {
			cp.Role = r
		}
	}
	return &cp
}

func (m *memCredentials) GetUser(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return m.withRole(u), nil
}

func (m *memCredentials) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return m.withRole(u), nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memCredentials) UpdateUserName(_ context.Context, id int64, first, last string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	u.FirstName, u.LastName = first, last
	return m.withRole(u), nil
}

func (m *memCredentials) GetRoleByName(_ context.Context, name string) (*model.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			r := r
			return &r, nil
		}
	}
	return nil, apperr.NotFound("Role not found")
}

func (m *memCredentials) GetRole(_ context.Context, id int64) (*model.Role, error) {
	for _, r := range m.roles {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, apperr.NotFound("Role not found")
}

func newTestService(t *testing.T) (*Service, *memCredentials) {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, 24*time.Hour)
	require.NoError(t, err)
	store := newMemCredentials()
	return NewService(store, issuer, bcrypt.MinCost, testutil.Logger()), store
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{
		Email:    "  Alice@X.com ",
		Password: "pw123456",
		Name:     "Alice Liddell",
		Role:     "student",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice@x.com", session.User.Email)
	assert.Equal(t, "Alice", session.User.FirstName)
	assert.Equal(t, "Liddell", session.User.LastName)
	assert.Equal(t, model.RoleStudent, session.User.RoleName)

	stored := store.users[session.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)

	id, err := svc.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, id.UserID)
	assert.Equal(t, model.RoleStudent, id.Role)

	login, err := svc.Login(ctx, "ALICE@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
	assert.Equal(t, model.RoleStudent, login.User.RoleName)
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "bob@x.com", Password: "pw123456", Name: "Bob", Role: "STUDENT"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: " BOB@x.com", Password: "different", FirstName: "Robert", LastName: "B", Role: "ADMIN"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestService_RegisterValidation(t *testing.T) {
	testCases := []struct {
		name string
		in   RegisterInput
	}{
		{name: "bad email", in: RegisterInput{Email: "nope", Password: "pw123456", Name: "A", Role: "STUDENT"}},
		{name: "short password", in: RegisterInput{Email: "a@x.com", Password: "pw", Name: "A", Role: "STUDENT"}},
		{name: "missing name", in: RegisterInput{Email: "a@x.com", Password: "pw123456", Role: "STUDENT"}},
		{name: "missing role", in: RegisterInput{Email: "a@x.com", Password: "pw123456", Name: "A"}},
		{name: "unknown role", in: RegisterInput{Email: "a@x.com", Password: "pw123456", Name: "A", Role: "JANITOR"}},
		{name: "unknown role id", in: RegisterInput{Email: "a@x.com", Password: "pw123456", Name: "A", RoleID: 99}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newTestService(t)
			_, err := svc.Register(context.Background(), tc.in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
			assert.Empty(t, store.users)
		})
	}
}

func TestService_RegisterByRoleID(t *testing.T) {
	svc, store := newTestService(t)
	lecturer, err := store.GetRoleByName(context.Background(), model.RoleLecturer)
	require.NoError(t, err)

	session, err := svc.Register(context.Background(), RegisterInput{
		Email: "l@x.com", Password: "pw123456", FirstName: "Lee", LastName: "Chen", RoleID: lecturer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleLecturer, session.User.RoleName)
	assert.Equal(t, "Lee Chen", session.User.Name)
}

func TestService_LoginFailures(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "c@x.com", Password: "pw123456", Name: "C", Role: "STAFF"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "c@x.com", "wrong-password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid credentials", apperr.Message(err))

	_, err = svc.Login(ctx, "nobody@x.com", "pw123456")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, "Invalid credentials", apperr.Message(err))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestService_Profile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	session, err := svc.Register(ctx, RegisterInput{Email: "d@x.com", Password: "pw123456", Name: "Dana", Role: "STUDENT"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "d@x.com", profile.Email)
	assert.Equal(t, model.RoleStudent, profile.RoleName)

	updated, err := svc.UpdateProfile(ctx, session.User.ID, ProfileUpdate{Name: "Dana Scully"})
	require.NoError(t, err)
	assert.Equal(t, "Dana", updated.FirstName)
	assert.Equal(t, "Scully", updated.LastName)
	assert.Equal(t, "d@x.com", updated.Email)

	_, err = svc.UpdateProfile(ctx, session.User.ID, ProfileUpdate{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.GetProfile(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.UpdateProfile(ctx, 999, ProfileUpdate{FirstName: "X"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSplitName(t *testing.T) {
	testCases := []struct {
		name, first, last string
		wantFirst         string
		wantLast          string
	}{
		{name: "Ada Lovelace", wantFirst: "Ada", wantLast: "Lovelace"},
		{name: "  Ada   King  Lovelace ", wantFirst: "Ada", wantLast: "King Lovelace"},
		{name: "Plato", wantFirst: "Plato", wantLast: ""},
		{name: "ignored", first: "Grace", last: "Hopper", wantFirst: "Grace", wantLast: "Hopper"},
		{wantFirst: "", wantLast: ""},
	}
	for _, tc := range testCases {
		first, last := splitName(tc.name, tc.first, tc.last)
		assert.Equal(t, tc.wantFirst, first, "name %q", tc.name)
		assert.Equal(t, tc.wantLast, last, "name %q", tc.name)
	}
}
