package site

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashboard/stat18ion/internal/auth"
	"go.uber.org/zap"
)

// Handler handles site management operations.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new site handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// SiteBody is the JSON shape of a site.
type SiteBody struct {
	ID        string    `doc:"Site id"          json:"id"`
	Name      string    `doc:"Display name"     json:"name"`
	Domain    string    `doc:"Optional domain"  json:"domain,omitempty"`
	CreatedAt time.Time `doc:"Creation time"    json:"createdAt"`
}

// CreateSiteRequest is the request for creating a site.
type CreateSiteRequest struct {
	Body struct {
		Name   string `doc:"Display name"    example:"My Blog"        json:"name,omitempty"`
		Domain string `doc:"Optional domain" example:"blog.example.com" json:"domain,omitempty"`
	}
}

// CreateSiteResponse is the response for a created site.
type CreateSiteResponse struct {
	Body SiteBody
}

// ListSitesResponse is the response for listing the caller's sites.
type ListSitesResponse struct {
	Body struct {
		Sites []SiteBody `json:"sites"`
	}
}

// CreateSite creates a site owned by the authenticated account.
func (h *Handler) CreateSite(ctx context.Context, req *CreateSiteRequest) (*CreateSiteResponse, error) {
	accountID, ok := auth.AccountIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing token")
	}

	site, err := h.service.Create(ctx, accountID, req.Body.Name, req.Body.Domain)
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			return nil, huma.Error400BadRequest("failed to create site")
		}

		h.logger.Error("site creation failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create site")
	}

	return &CreateSiteResponse{Body: toBody(site)}, nil
}

// ListSites lists the authenticated account's sites.
func (h *Handler) ListSites(ctx context.Context, _ *struct{}) (*ListSitesResponse, error) {
	accountID, ok := auth.AccountIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing token")
	}

	sites, err := h.service.List(ctx, accountID)
	if err != nil {
		h.logger.Error("site listing failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list sites")
	}

	resp := &ListSitesResponse{}
	resp.Body.Sites = make([]SiteBody, 0, len(sites))

	for i := range sites {
		resp.Body.Sites = append(resp.Body.Sites, toBody(&sites[i]))
	}

	return resp, nil
}

func toBody(s *Site) SiteBody {
	return SiteBody{
		ID:        s.ID,
		Name:      s.Name,
		Domain:    s.Domain,
		CreatedAt: s.CreatedAt,
	}
}

// RegisterRoutes registers site routes. Both require authentication.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-site",
		Method:      http.MethodPost,
		Path:        "/api/sites",
		Summary:     "Create a site",
		Tags:        []string{"Sites"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, h.CreateSite)

	huma.Register(api, huma.Operation{
		OperationID: "list-sites",
		Method:      http.MethodGet,
		Path:        "/api/sites",
		Summary:     "List your sites",
		Tags:        []string{"Sites"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, h.ListSites)
}
