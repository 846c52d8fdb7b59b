// Cadence - Music Streaming User Behaviour Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cadence

package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/cadence/internal/logging"
)

// DefaultBcryptCost is used when Options.BcryptCost is zero.
const DefaultBcryptCost = 12

// Engine reads and atomically rewrites headed CSV files.
// *database.DB implements it.
type Engine interface {
	ReadCSV(ctx context.Context, path string) ([]string, [][]*string, error)
	WriteCSV(ctx context.Context, path string, header []string, rows [][]*string) error
}

// Options configures a Store.
type Options struct {
	// BcryptCost for new hashes; zero means DefaultBcryptCost.
	BcryptCost int

	// OnWrite runs after every successful write, outside the lock.
	OnWrite func()

	// Now defaults to time.Now.
	Now func() time.Time
}

// Registration is the input of Register.
type Registration struct {
	Username string
	Password string
	Confirm  string
	Email    string
	Phone    string
}

// Store is the users CSV held in memory.
type Store struct {
	engine Engine
	path   string
	opts   Options

	mu    sync.RWMutex
	users []User
	index map[string]int

	dummyOnce sync.Once
	dummy     []byte
}

// Open loads the users file at path, creating it with just a header when it
// does not exist.
func Open(ctx context.Context, engine Engine, path string, opts Options) (*Store, error) {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultBcryptCost
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", opts.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{engine: engine, path: path, opts: opts, index: make(map[string]int)}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := engine.WriteCSV(ctx, path, Columns, nil); err != nil {
			return nil, fmt.Errorf("create users file: %w", err)
		}
		logging.Info().Str("path", path).Msg("Created empty users file")
		return s, nil
	}

	header, rows, err := engine.ReadCSV(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{"username", "password_hash"} {
		if _, ok := pos[required]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrInvalidUsersFile, path, required)
		}
	}

	cell := func(row []*string, name string) string {
		i, ok := pos[name]
		if !ok || i >= len(row) || row[i] == nil {
			return ""
		}
		return *row[i]
	}
	for _, row := range rows {
		u := User{
			Username:     strings.TrimSpace(cell(row, "username")),
			PasswordHash: cell(row, "password_hash"),
			Email:        cell(row, "email"),
			Phone:        cell(row, "phone"),
			CreatedAt:    cell(row, "created_at"),
			Intro:        cell(row, "intro"),
		}
		if u.Username == "" {
			continue
		}
		if _, dup := s.index[u.Username]; dup {
			logging.Warn().Str("username", u.Username).Msg("Duplicate username in users file, keeping first")
			continue
		}
		s.index[u.Username] = len(s.users)
		s.users = append(s.users, u)
	}
	logging.Debug().Str("path", path).Int("users", len(s.users)).Msg("Loaded users file")
	return s, nil
}

// Path returns the users file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Get returns the named user.
func (s *Store) Get(username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[username]
	if !ok {
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return s.users[i], nil
}

// Register validates r, hashes the password and appends the user.
func (s *Store) Register(ctx context.Context, r Registration) (User, error) {
	username := strings.TrimSpace(r.Username)
	if username == "" || r.Password == "" {
		return User{}, ErrMissingCredentials
	}
	if r.Password != r.Confirm {
		return User{}, ErrPasswordMismatch
	}

	// Hash before taking the lock; bcrypt is slow.
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.opts.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        strings.TrimSpace(r.Email),
		Phone:        strings.TrimSpace(r.Phone),
		CreatedAt:    s.opts.Now().Format(TimeFormat),
	}

	s.mu.Lock()
	if _, taken := s.index[username]; taken {
		s.mu.Unlock()
		return User{}, fmt.Errorf("%w: %s", ErrUserExists, username)
	}
	next := append(append([]User(nil), s.users...), u)
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return User{}, err
	}
	s.users = next
	s.index[username] = len(next) - 1
	s.mu.Unlock()

	s.afterWrite()
	logging.Ctx(ctx).Info().Str("username", username).Msg("User registered")
	return u, nil
}

// Authenticate checks a username and password. Unknown users still pay for
// one bcrypt comparison.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.Get(strings.TrimSpace(username))
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password)) //nolint:errcheck // timing only
		return User{}, err
	}

	if !isBcryptHash(u.PasswordHash) {
		if subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(password)) != 1 {
			return User{}, ErrWrongPassword
		}
		if err := s.rehash(ctx, u.Username, password); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("username", u.Username).Msg("Failed to upgrade plaintext password")
		}
		return u, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrWrongPassword
	}
	return u, nil
}

// UpdateProfile replaces the user's email, phone and intro.
func (s *Store) UpdateProfile(ctx context.Context, username, email, phone, intro string) (User, error) {
	return s.update(ctx, username, func(u *User) {
		u.Email = strings.TrimSpace(email)
		u.Phone = strings.TrimSpace(phone)
		u.Intro = strings.TrimSpace(intro)
	})
}

func (s *Store) rehash(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.update(ctx, username, func(u *User) { u.PasswordHash = string(hash) })
	return err
}

func (s *Store) update(ctx context.Context, username string, mutate func(*User)) (User, error) {
	s.mu.Lock()
	i, ok := s.index[username]
	if !ok {
		s.mu.Unlock()
		return User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	next := append([]User(nil), s.users...)
	mutate(&next[i])
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return User{}, err
	}
	s.users = next
	u := next[i]
	s.mu.Unlock()

	s.afterWrite()
	return u, nil
}

// persist writes users to disk. Callers hold the write lock.
func (s *Store) persist(ctx context.Context, users []User) error {
	rows := make([][]*string, len(users))
	for i, u := range users {
		rows[i] = []*string{
			cellOf(u.Username), cellOf(u.PasswordHash), cellOf(u.Email),
			cellOf(u.Phone), cellOf(u.CreatedAt), cellOf(u.Intro),
		}
	}
	if err := s.engine.WriteCSV(ctx, s.path, Columns, rows); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

func (s *Store) afterWrite() {
	if s.opts.OnWrite != nil {
		s.opts.OnWrite()
	}
}

func cellOf(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func isBcryptHash(h string) bool {
	_, err := bcrypt.Cost([]byte(h))
	return err == nil
}

// dummyHash returns a hash at the store's cost, computed on first use.
func (s *Store) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("cadence-unknown-user"), s.opts.BcryptCost) //nolint:errcheck // cost validated in Open
	})
	return s.dummy
}
