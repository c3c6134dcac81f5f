package site

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAccessDenied is returned when an account does not own a site.
	// Nonexistent sites yield the same error so ownership checks never
	// leak which site ids exist.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidName is returned when creating a site without a name.
	ErrInvalidName = errors.New("site name is required")
)

// Site is a tracked website owned by one account. The owner is set at
// creation and never changes.
type Site struct {
	ID        string
	OwnerID   string
	Name      string
	Domain    string
	CreatedAt time.Time
}

// Store defines site persistence.
type Store interface {
	CreateSite(ctx context.Context, s *Site) error

	// SitesByOwner lists an account's sites, newest first.
	SitesByOwner(ctx context.Context, ownerID string) ([]Site, error)

	// SiteOwnedBy reports whether the site exists and belongs to the owner.
	SiteOwnedBy(ctx context.Context, siteID, ownerID string) (bool, error)
}

// Service implements site management and the ownership gate.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new site service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Create registers a new site for an account.
func (s *Service) Create(ctx context.Context, ownerID, name, domain string) (*Site, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	site := &Site{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Domain:    domain,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.CreateSite(ctx, site); err != nil {
		return nil, err
	}

	s.logger.Info("site created",
		zap.String("siteId", site.ID),
		zap.String("ownerId", ownerID),
	)

	return site, nil
}

// List returns the account's sites, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Site, error) {
	return s.store.SitesByOwner(ctx, ownerID)
}

// Authorize confirms the account owns the site before any per-site query
// runs. It fails closed: anything but a positive ownership result denies
// access, and a missing site is indistinguishable from a foreign one.
func (s *Service) Authorize(ctx context.Context, accountID, siteID string) error {
	owned, err := s.store.SiteOwnedBy(ctx, siteID, accountID)
	if err != nil {
		return err
	}

	if !owned {
		return ErrAccessDenied
	}

	return nil
}
