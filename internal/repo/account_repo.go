package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dom "github.com/kntgio-z/test-repo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const selectUsernameByID = `SELECT username FROM my_schema."Accounts" WHERE id = $1`

// AccountRepo provides account persistence.
type AccountRepo interface {
	GetUsername(ctx context.Context, id int64) (string, error)
	BatchGetUsername(ctx context.Context, id int64, count int, parallel bool) ([]string, error)
	Create(ctx context.Context, username, password string) (int64, error)
	Update(ctx context.Context, id int64, username, password *string) error
	Delete(ctx context.Context, id int64, password string) error
}

// PGAccountRepo implements AccountRepo with Postgres. Connections come from
// the injected pool; every transactional method defers a rollback that is a
// no-op once the transaction committed, so rollback never runs without an
// open transaction.
type PGAccountRepo struct {
	db *pgxpool.Pool
}

// NewPGAccountRepo returns a new PGAccountRepo.
func NewPGAccountRepo(db *pgxpool.Pool) *PGAccountRepo {
	return &PGAccountRepo{db: db}
}

// GetUsername returns the username for id. pgx.ErrNoRows if absent.
func (r *PGAccountRepo) GetUsername(ctx context.Context, id int64) (string, error) {
	var username string
	err := r.db.QueryRow(ctx, selectUsernameByID, id).Scan(&username)
	return username, err
}

// BatchGetUsername runs count identical username lookups for id and returns
// the results in input order. Sequential mode pipelines all statements over
// one pooled connection; parallel mode fans each statement out to its own
// pooled connection. If the first lookup matches no row the whole batch is
// empty (the statements are identical) and pgx.ErrNoRows is returned.
func (r *PGAccountRepo) BatchGetUsername(ctx context.Context, id int64, count int, parallel bool) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}
	if parallel {
		return r.batchGetParallel(ctx, id, count)
	}
	return r.batchGetSequential(ctx, id, count)
}

func (r *PGAccountRepo) batchGetSequential(ctx context.Context, id int64, count int) ([]string, error) {
	b := &pgx.Batch{}
	for i := 0; i < count; i++ {
		b.Queue(selectUsernameByID, id)
	}
	br := r.db.SendBatch(ctx, b)
	defer br.Close()

	out := make([]string, count)
	for i := 0; i < count; i++ {
		if err := br.QueryRow().Scan(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PGAccountRepo) batchGetParallel(ctx context.Context, id int64, count int) ([]string, error) {
	out := make([]string, count)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			// Result lands at its statement's index, so output order is
			// input order no matter how execution interleaves.
			return r.db.QueryRow(ctx, selectUsernameByID, id).Scan(&out[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new account and returns the generated id. The caller
// classifies unique-violation errors.
func (r *PGAccountRepo) Create(ctx context.Context, username, password string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO my_schema."Accounts" (username, password) VALUES ($1, $2) RETURNING id`,
		username, password,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Update applies a partial update to id inside one transaction. The current
// row is read and the update executed as a single batched call; the
// transaction then commits only if the supplied values differ from the
// stored ones. Returns dom.ErrNotFound, dom.ErrSameUsername or
// dom.ErrSamePassword on the rejecting paths, each after rollback.
func (r *PGAccountRepo) Update(ctx context.Context, id int64, username, password *string) error {
	updateSQL, args := buildAccountUpdate(id, username, password)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b := &pgx.Batch{}
	b.Queue(`SELECT username, password FROM my_schema."Accounts" WHERE id = $1`, id)
	b.Queue(updateSQL, args...)
	br := tx.SendBatch(ctx, b)

	var current dom.Account
	if err := br.QueryRow().Scan(&current.Username, &current.Password); err != nil {
		_ = br.Close()
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.ErrNotFound
		}
		return err
	}
	if _, err := br.Exec(); err != nil {
		_ = br.Close()
		return err
	}
	if err := br.Close(); err != nil {
		return err
	}

	// No-op edits are rejected after the fact: the batched update already
	// ran, so the rejection is a rollback rather than a skipped statement.
	if username != nil && *username == current.Username {
		return dom.ErrSameUsername
	}
	if password != nil && *password == current.Password {
		return dom.ErrSamePassword
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// buildAccountUpdate assembles the partial-update statement from a fixed set
// of parameterized fragments; caller input only ever travels as a bind
// parameter, never as part of the SQL text.
func buildAccountUpdate(id int64, username, password *string) (string, []any) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if username != nil {
		args = append(args, *username)
		sets = append(sets, fmt.Sprintf("username = $%d", len(args)))
	}
	if password != nil {
		args = append(args, *password)
		sets = append(sets, fmt.Sprintf("password = $%d", len(args)))
	}
	args = append(args, id)
	sql := fmt.Sprintf(`UPDATE my_schema."Accounts" SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))
	return sql, args
}

// Delete removes the account matching both id and password. A mismatch on
// either is dom.ErrNotFound; the caller cannot tell which field was wrong.
func (r *PGAccountRepo) Delete(ctx context.Context, id int64, password string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`DELETE FROM my_schema."Accounts" WHERE id = $1 AND password = $2`,
		id, password,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return dom.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
