package service

import (
	"context"
	"testing"
	"time"

	dom "accounts/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory repo.UserRepo.
type fakeUserRepo struct {
	byID   map[int64]dom.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]dom.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(ctx context.Context, name, email, passwordHash string) (dom.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	now := time.Now().UTC()
	u := dom.User{ID: f.nextID, Name: name, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	f.byID[u.ID] = u
	f.nextID++
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (f *fakeUserRepo) Update(ctx context.Context, u dom.User) (dom.User, error) {
	if _, ok := f.byID[u.ID]; !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	for _, other := range f.byID {
		if other.ID != u.ID && other.Email == u.Email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	f.byID[u.ID] = u
	return u, nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)

	u, err := svc.Register(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@x.com", u.Email)
	// stored as a bcrypt digest, never plaintext
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw1")))

	_, err = svc.Register(ctx, "Bob", "alice@x.com", "pw2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)

	for _, tc := range []struct{ name, email, password string }{
		{"", "a@x.com", "pw"},
		{"A", "", "pw"},
		{"A", "a@x.com", ""},
		{"  ", "a@x.com", "pw"},
	} {
		_, err := svc.Register(ctx, tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestValidateCredentialsSymmetry(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(), nil)

	_, err := svc.Register(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	// wrong password and unknown email are indistinguishable
	_, errWrongPW := svc.ValidateCredentials(ctx, "alice@x.com", "nope")
	_, errUnknown := svc.ValidateCredentials(ctx, "ghost@x.com", "pw1")
	assert.ErrorIs(t, errWrongPW, ErrNoMatch)
	assert.ErrorIs(t, errUnknown, ErrNoMatch)

	u, err := svc.ValidateCredentials(ctx, "alice@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
}

func TestProfileUserGone(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	_, err := svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	u, err := svc.Register(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)
	before := repo.byID[u.ID]

	err = svc.UpdateProfile(ctx, u.ID, ProfilePatch{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	// name only: email and password untouched, updated_at bumped
	name := "Alicia"
	require.NoError(t, svc.UpdateProfile(ctx, u.ID, ProfilePatch{Name: &name}))
	after := repo.byID[u.ID]
	assert.Equal(t, "Alicia", after.Name)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.False(t, after.UpdatedAt.Before(before.UpdatedAt))

	// password is rehashed
	pw := "pw2"
	require.NoError(t, svc.UpdateProfile(ctx, u.ID, ProfilePatch{Password: &pw}))
	_, err = svc.ValidateCredentials(ctx, "alice@x.com", "pw1")
	assert.ErrorIs(t, err, ErrNoMatch)
	_, err = svc.ValidateCredentials(ctx, "alice@x.com", "pw2")
	assert.NoError(t, err)
}

func TestUpdateProfileBlankFields(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	u, err := svc.Register(ctx, "Alice", "alice@x.com", "pw1")
	require.NoError(t, err)

	// whitespace-only values must not blank the profile
	for _, blank := range []string{"", "   ", "\t"} {
		err = svc.UpdateProfile(ctx, u.ID, ProfilePatch{Name: &blank})
		assert.ErrorIs(t, err, ErrInvalidInput)
		err = svc.UpdateProfile(ctx, u.ID, ProfilePatch{Email: &blank})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	after := repo.byID[u.ID]
	assert.Equal(t, "Alice", after.Name)
	assert.Equal(t, "alice@x.com", after.Email)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil)

	alice, err := svc.Register(ctx, "Alice", "alice@x.com", "pw")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bob", "bob@x.com", "pw")
	require.NoError(t, err)

	taken := "bob@x.com"
	err = svc.UpdateProfile(ctx, alice.ID, ProfilePatch{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
	// original email untouched
	assert.Equal(t, "alice@x.com", repo.byID[alice.ID].Email)

	// setting the email to its current value is not a conflict
	same := "alice@x.com"
	assert.NoError(t, svc.UpdateProfile(ctx, alice.ID, ProfilePatch{Email: &same}))
}

func TestUpdateProfileUserGone(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	name := "ghost"
	err := svc.UpdateProfile(context.Background(), 42, ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, ErrUserGone)
}
