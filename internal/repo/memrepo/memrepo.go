// Package memrepo stores accounts in process memory. It mirrors the error
// contract of the Postgres repository (pgx.ErrNoRows for missing reads,
// SQLSTATE 23505 for duplicate usernames) so services can run against it in
// tests without a database.
package memrepo

import (
	"context"
	"sync"

	dom "github.com/kntgio-z/test-repo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemAccountRepo implements repo.AccountRepo in memory.
type MemAccountRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]dom.Account
	queries int
}

// New returns an initialized in-memory repository.
func New() *MemAccountRepo {
	return &MemAccountRepo{nextID: 1, rows: make(map[int64]dom.Account)}
}

// Queries returns the number of username lookups issued so far.
func (r *MemAccountRepo) Queries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries
}

// Len returns the number of stored rows.
func (r *MemAccountRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *MemAccountRepo) GetUsername(ctx context.Context, id int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	row, ok := r.rows[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return row.Username, nil
}

func (r *MemAccountRepo) BatchGetUsername(ctx context.Context, id int64, count int, parallel bool) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	// Parallel and sequential modes are indistinguishable in memory; both
	// must return results in statement order.
	out := make([]string, count)
	for i := 0; i < count; i++ {
		u, err := r.GetUsername(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}

func (r *MemAccountRepo) Create(ctx context.Context, username, password string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Username == username {
			return 0, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	id := r.nextID
	r.nextID++
	r.rows[id] = dom.Account{ID: id, Username: username, Password: password}
	return id, nil
}

func (r *MemAccountRepo) Update(ctx context.Context, id int64, username, password *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return dom.ErrNotFound
	}
	if username != nil && *username == row.Username {
		return dom.ErrSameUsername
	}
	if password != nil && *password == row.Password {
		return dom.ErrSamePassword
	}
	if username != nil {
		row.Username = *username
	}
	if password != nil {
		row.Password = *password
	}
	r.rows[id] = row
	return nil
}

func (r *MemAccountRepo) Delete(ctx context.Context, id int64, password string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Password != password {
		return dom.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
