package handler

import (
	"log/slog"
	"time"

	"greenhood/internal/delivery/api/response"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/domain/entity"
	"greenhood/internal/errors"
	"greenhood/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const dateLayout = "2006-01-02"

// DashboardHandlerParams holds dependencies for DashboardHandler, injected by Fx.
type DashboardHandlerParams struct {
	fx.In

	DashboardUC usecase.DashboardUsecase
	Logger      *slog.Logger
}

// DashboardHandler serves the read-only guest dashboard.
type DashboardHandler struct {
	dashboardUC usecase.DashboardUsecase
	logger      *slog.Logger
}

// NewDashboardHandler is the constructor for DashboardHandler
func NewDashboardHandler(params DashboardHandlerParams) *DashboardHandler {
	return &DashboardHandler{
		dashboardUC: params.DashboardUC,
		logger:      params.Logger,
	}
}

// LimitQuery bounds the length of a ranking or feed. Zero selects the default.
type LimitQuery struct {
	Limit int `query:"limit" validate:"gte=0"`
}

// AvailableItemsQuery filters the available listing. Zero measures are open bounds.
type AvailableItemsQuery struct {
	Types       []string `query:"type"`
	MinWeight   float64  `query:"minWeight" validate:"gte=0"`
	MaxWeight   float64  `query:"maxWeight" validate:"gte=0"`
	MinVolume   float64  `query:"minVolume" validate:"gte=0"`
	MaxVolume   float64  `query:"maxVolume" validate:"gte=0"`
	From        string   `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string   `query:"to" validate:"omitempty,datetime=2006-01-02"`
	TaxID       string   `query:"taxId" validate:"omitempty,gh_taxid"`
	OnlyAllowed bool     `query:"onlyAllowed"`
}

func (q *AvailableItemsQuery) filter() entity.AvailableFilter {
	filter := entity.AvailableFilter{
		TypeNames:   q.Types,
		MinWeight:   positive(q.MinWeight),
		MaxWeight:   positive(q.MaxWeight),
		MinVolume:   positive(q.MinVolume),
		MaxVolume:   positive(q.MaxVolume),
		OnlyAllowed: q.OnlyAllowed,
	}
	// Both dates were checked by the validator.
	if from, err := time.Parse(dateLayout, q.From); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(dateLayout, q.To); err == nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}

	return filter
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}

	return &v
}

// bind reads the query into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domainerrors.NewValidationFailure(domainerrors.KeyInvalidInput, "query")
	}

	return errors.WithStack(c.Validate(dst))
}

func (h *DashboardHandler) limit(c echo.Context) (int, error) {
	var query LimitQuery
	if err := bind(c, &query); err != nil {
		return 0, err
	}

	return query.Limit, nil
}

// TopIndividuals handles GET /leaderboards/individuals
func (h *DashboardHandler) TopIndividuals(c echo.Context) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}

	entries, err := h.dashboardUC.TopIndividuals(c.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "failed to rank individuals")
	}

	return response.List(c, toRankResponses(entries))
}

// TopOrganizations handles GET /leaderboards/organizations
func (h *DashboardHandler) TopOrganizations(c echo.Context) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}

	entries, err := h.dashboardUC.TopOrganizations(c.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "failed to rank organizations")
	}

	return response.List(c, toRankResponses(entries))
}

// RecentDiscards handles GET /feeds/discards
func (h *DashboardHandler) RecentDiscards(c echo.Context) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}

	records, err := h.dashboardUC.RecentDiscards(c.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "failed to list recent discards")
	}

	return response.List(c, toRecordResponses(records))
}

// RecentRecycled handles GET /feeds/recycled
func (h *DashboardHandler) RecentRecycled(c echo.Context) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}

	records, err := h.dashboardUC.RecentRecycled(c.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "failed to list recycled items")
	}

	return response.List(c, toRecordResponses(records))
}

// RecentReservations handles GET /feeds/reservations
func (h *DashboardHandler) RecentReservations(c echo.Context) error {
	limit, err := h.limit(c)
	if err != nil {
		return err
	}

	records, err := h.dashboardUC.RecentReservations(c.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "failed to list reservations")
	}

	return response.List(c, toRecordResponses(records))
}

// AvailableItems handles GET /items/available
func (h *DashboardHandler) AvailableItems(c echo.Context) error {
	var query AvailableItemsQuery
	if err := bind(c, &query); err != nil {
		return err
	}

	records, err := h.dashboardUC.AvailableItems(c.Request().Context(), query.filter(), query.TaxID)
	if err != nil {
		return errors.Wrap(err, "failed to list available items")
	}

	return response.List(c, toRecordResponses(records))
}

// DisposalTypes handles GET /disposal-types
func (h *DashboardHandler) DisposalTypes(c echo.Context) error {
	types, err := h.dashboardUC.DisposalTypes(c.Request().Context())
	if err != nil {
		return errors.Wrap(err, "failed to list disposal types")
	}

	return response.List(c, toDisposalTypeResponses(types))
}
