package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"accounts/internal/cache"
	dom "accounts/internal/domain"
	"accounts/internal/repo"
	"accounts/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidInput = errors.New("name, email and password required")
	ErrEmailTaken   = errors.New("email already taken")
	ErrNoMatch      = errors.New("no user matches email and password")
	ErrUserGone     = errors.New("user no longer exists")
	ErrEmptyUpdate  = errors.New("update body is empty")
)

// ProfilePatch carries the optional fields of PATCH /user. nil = leave as is.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
}

// Empty reports whether no field is set.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// UserService handles account logic: registration, credential checks and
// profile reads/updates. If c is nil, profile caching is disabled.
type UserService struct {
	repo  repo.UserRepo
	cache *cache.ProfileCache
	sf    singleflight.Group
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, c *cache.ProfileCache) *UserService {
	return &UserService{repo: r, cache: c}
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, name, email, password string) (dom.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return dom.User{}, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, name, email, string(hash))
	if err != nil {
		// users_email_key is the real uniqueness guard; no pre-check here.
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks email and password; returns the user if valid.
// Unknown email and wrong password both return ErrNoMatch, nothing else.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrNoMatch
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNoMatch
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrNoMatch
	}
	return u, nil
}

// Profile returns the public profile of the user. ErrUserGone if the user
// row has vanished since the session was issued.
func (s *UserService) Profile(ctx context.Context, userID int64) (dom.Profile, error) {
	if s.cache != nil {
		key := "profile:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if p, err := s.cache.Get(ctx, userID); err == nil && p != nil {
				return *p, nil
			}
			p, err := s.loadProfile(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.Set(ctx, userID, p)
			return p, nil
		})
		if err != nil {
			return dom.Profile{}, err
		}
		return v.(dom.Profile), nil
	}
	return s.loadProfile(ctx, userID)
}

func (s *UserService) loadProfile(ctx context.Context, userID int64) (dom.Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Profile{}, ErrUserGone
		}
		return dom.Profile{}, err
	}
	return u.Profile(), nil
}

// UpdateProfile applies the provided fields independently, rehashing the
// password when it changes, and stamps updated_at.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) error {
	if patch.Empty() {
		return ErrEmptyUpdate
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserGone
		}
		return err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return ErrInvalidInput
		}
		u.Name = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		// A whitespace-only email would blank the account and lock out login.
		if email == "" {
			return ErrInvalidInput
		}
		if email != u.Email {
			// Fast path for a clear 409; the unique index still backstops races.
			other, err := s.repo.GetByEmail(ctx, email)
			if err == nil && other.ID != userID {
				return ErrEmailTaken
			}
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		}
		u.Email = email
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
	}
	u.UpdatedAt = time.Now().UTC()
	if _, err := s.repo.Update(ctx, u); err != nil {
		if utils.IsPGUniqueViolation(err) {
			return ErrEmailTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserGone
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *UserService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
