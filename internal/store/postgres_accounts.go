package store

import (
	"context"
	"errors"

	"github.com/hashboard/stat18ion/internal/auth"
	"github.com/hashboard/stat18ion/internal/site"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func (p *Postgres) CreateAccount(ctx context.Context, email, passwordHash string) (*auth.Account, error) {
	account := &auth.Account{Email: email, PasswordHash: passwordHash}

	err := p.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id::text, created_at`,
		email, passwordHash,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, auth.ErrEmailTaken
		}

		return nil, err
	}

	return account, nil
}

func (p *Postgres) AccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	var account auth.Account

	err := p.pool.QueryRow(ctx,
		`SELECT id::text, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrAccountNotFound
		}

		return nil, err
	}

	return &account, nil
}

func (p *Postgres) CreateSite(ctx context.Context, s *site.Site) error {
	query := `
		INSERT INTO sites (id, user_id, name, domain, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		s.ID,
		s.OwnerID,
		s.Name,
		nullableString(s.Domain),
		s.CreatedAt,
	)

	return err
}

func (p *Postgres) SitesByOwner(ctx context.Context, ownerID string) ([]site.Site, error) {
	query := `
		SELECT id::text, user_id::text, name, COALESCE(domain, ''), created_at
		FROM sites
		WHERE user_id::text = $1
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sites := []site.Site{}

	for rows.Next() {
		var s site.Site
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Domain, &s.CreatedAt); err != nil {
			return nil, err
		}

		sites = append(sites, s)
	}

	return sites, rows.Err()
}

// SiteOwnedBy compares ids as text so an arbitrary (non-UUID) site id from
// a request resolves to "not owned" rather than a cast error.
func (p *Postgres) SiteOwnedBy(ctx context.Context, siteID, ownerID string) (bool, error) {
	var owned bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sites WHERE id::text = $1 AND user_id::text = $2)`,
		siteID, ownerID,
	).Scan(&owned)

	return owned, err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
