package stats

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashboard/stat18ion/internal/auth"
	"github.com/hashboard/stat18ion/internal/site"
	"go.uber.org/zap"
)

// Handler serves per-site stats snapshots behind the ownership gate.
type Handler struct {
	aggregator *Aggregator
	gate       *site.Service
	logger     *zap.Logger
}

// NewHandler creates a new stats handler.
func NewHandler(aggregator *Aggregator, gate *site.Service, logger *zap.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		gate:       gate,
		logger:     logger,
	}
}

// GetSiteStatsRequest identifies the site to aggregate.
type GetSiteStatsRequest struct {
	SiteID string `doc:"Site id" path:"siteId"`
}

// PageCount is one path and its view count.
type PageCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// ReferrerCount is one referrer and its view count. The empty referrer is
// a valid bucket meaning direct traffic; labeling it is the dashboard's
// job, not this endpoint's.
type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
}

// CountryCount is one country and its view count.
type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

// BrowserCount is one browser and its view count.
type BrowserCount struct {
	Browser string `json:"browser"`
	Count   int64  `json:"count"`
}

// OSCount is one operating system and its view count.
type OSCount struct {
	OS    string `json:"os"`
	Count int64  `json:"count"`
}

// GetSiteStatsResponse is the stats snapshot for one site.
type GetSiteStatsResponse struct {
	Body struct {
		TotalViews     int64           `json:"total_views"`
		UniqueVisitors int64           `json:"unique_visitors"`
		TopPages       []PageCount     `json:"top_pages"`
		TopReferrers   []ReferrerCount `json:"top_referrers"`
		TopCountries   []CountryCount  `json:"top_countries"`
		TopBrowsers    []BrowserCount  `json:"top_browsers"`
		TopOS          []OSCount       `json:"top_os"`
		DailyViews     []DailyCount    `json:"daily_views"`
	}
}

// GetSiteStats computes the snapshot for a site the caller owns.
func (h *Handler) GetSiteStats(ctx context.Context, req *GetSiteStatsRequest) (*GetSiteStatsResponse, error) {
	accountID, ok := auth.AccountIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("missing token")
	}

	if err := h.gate.Authorize(ctx, accountID, req.SiteID); err != nil {
		if errors.Is(err, site.ErrAccessDenied) {
			return nil, huma.Error403Forbidden("access denied")
		}

		h.logger.Error("ownership check failed",
			zap.String("siteId", req.SiteID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to compute stats")
	}

	snap, err := h.aggregator.Snapshot(ctx, req.SiteID)
	if err != nil {
		h.logger.Error("stats snapshot failed",
			zap.String("siteId", req.SiteID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to compute stats")
	}

	resp := &GetSiteStatsResponse{}
	resp.Body.TotalViews = snap.TotalViews
	resp.Body.UniqueVisitors = snap.UniqueVisitors
	resp.Body.TopPages = make([]PageCount, 0, len(snap.TopPages))
	resp.Body.TopReferrers = make([]ReferrerCount, 0, len(snap.TopReferrers))
	resp.Body.TopCountries = make([]CountryCount, 0, len(snap.TopCountries))
	resp.Body.TopBrowsers = make([]BrowserCount, 0, len(snap.TopBrowsers))
	resp.Body.TopOS = make([]OSCount, 0, len(snap.TopOperatingSystems))
	resp.Body.DailyViews = snap.DailyViews

	if resp.Body.DailyViews == nil {
		resp.Body.DailyViews = []DailyCount{}
	}

	for _, b := range snap.TopPages {
		resp.Body.TopPages = append(resp.Body.TopPages, PageCount{Path: b.Value, Count: b.Count})
	}

	for _, b := range snap.TopReferrers {
		resp.Body.TopReferrers = append(resp.Body.TopReferrers, ReferrerCount{Referrer: b.Value, Count: b.Count})
	}

	for _, b := range snap.TopCountries {
		resp.Body.TopCountries = append(resp.Body.TopCountries, CountryCount{Country: b.Value, Count: b.Count})
	}

	for _, b := range snap.TopBrowsers {
		resp.Body.TopBrowsers = append(resp.Body.TopBrowsers, BrowserCount{Browser: b.Value, Count: b.Count})
	}

	for _, b := range snap.TopOperatingSystems {
		resp.Body.TopOS = append(resp.Body.TopOS, OSCount{OS: b.Value, Count: b.Count})
	}

	return resp, nil
}

// RegisterRoutes registers the stats routes.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-site-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats/{siteId}",
		Summary:     "Per-site stats snapshot",
		Tags:        []string{"Stats"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, h.GetSiteStats)
}
