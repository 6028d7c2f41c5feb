package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/kntgio-z/test-repo/internal/cache"
	dom "github.com/kntgio-z/test-repo/internal/domain"
	"github.com/kntgio-z/test-repo/internal/repo"
	"github.com/kntgio-z/test-repo/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// ErrNothingToUpdate is returned when an edit supplies neither a username
// nor a password.
var ErrNothingToUpdate = errors.New("nothing to update")

// pressureAccountID is the fixed id every pressure query selects. The
// endpoint load-tests the batch execution path, so all statements hit the
// same row on purpose.
const pressureAccountID int64 = 1

// AccountService holds the account business rules. If c is nil, caching is
// disabled and every read goes to Postgres.
type AccountService struct {
	repo  repo.AccountRepo
	cache *cache.AccountCache
	sf    singleflight.Group
}

// NewAccountService creates an AccountService.
func NewAccountService(r repo.AccountRepo, c *cache.AccountCache) *AccountService {
	return &AccountService{repo: r, cache: c}
}

// GetUsername returns the username for id, through the cache when enabled.
func (s *AccountService) GetUsername(ctx context.Context, id int64) (string, error) {
	if s.cache != nil {
		key := "username:" + strconv.FormatInt(id, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if u, ok, err := s.cache.GetUsername(ctx, id); err == nil && ok {
				return u, nil
			}
			u, err := s.repo.GetUsername(ctx, id)
			if err != nil {
				return "", err
			}
			_ = s.cache.SetUsername(ctx, id, u)
			return u, nil
		})
		if err != nil {
			return "", mapNoRows(err)
		}
		return v.(string), nil
	}
	u, err := s.repo.GetUsername(ctx, id)
	if err != nil {
		return "", mapNoRows(err)
	}
	return u, nil
}

// Pressure issues count identical username lookups for the fixed id,
// optionally in parallel, and returns the usernames in statement order.
// The cache is bypassed: the point of the endpoint is to exercise the
// database batch path.
func (s *AccountService) Pressure(ctx context.Context, count int, parallel bool) ([]string, error) {
	list, err := s.repo.BatchGetUsername(ctx, pressureAccountID, count, parallel)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return list, nil
}

// Create inserts a new account and returns the generated id.
func (s *AccountService) Create(ctx context.Context, username, password string) (int64, error) {
	id, err := s.repo.Create(ctx, username, password)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return 0, dom.ErrDuplicateUsername
		}
		return 0, err
	}
	return id, nil
}

// Update applies a partial edit. Supplied fields are trimmed before both
// comparison and storage; setting a field to its current value is rejected.
func (s *AccountService) Update(ctx context.Context, id int64, username, password *string) error {
	if username == nil && password == nil {
		return ErrNothingToUpdate
	}
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		username = &trimmed
	}
	if password != nil {
		trimmed := strings.TrimSpace(*password)
		password = &trimmed
	}
	if err := s.repo.Update(ctx, id, username, password); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Delete removes the account matching both id and password.
func (s *AccountService) Delete(ctx context.Context, id int64, password string) error {
	if err := s.repo.Delete(ctx, id, password); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *AccountService) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.ErrNotFound
	}
	return err
}
