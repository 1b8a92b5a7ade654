// Package router contains routing for the guest dashboard API.
package router

import (
	"greenhood/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	DashboardHandler *handler.DashboardHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	dashboardHandler *handler.DashboardHandler
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		dashboardHandler: params.DashboardHandler,
	}
}

// RegisterRoutes sets up the read-only API. Every route is public.
func (r *router) RegisterRoutes(e *echo.Echo) {
	apiV1 := e.Group("/api/v1")
	apiV1.GET("/healthz", handler.HealthCheck)

	leaderboards := apiV1.Group("/leaderboards")
	{
		leaderboards.GET("/individuals", r.dashboardHandler.TopIndividuals)
		leaderboards.GET("/organizations", r.dashboardHandler.TopOrganizations)
	}

	feeds := apiV1.Group("/feeds")
	{
		feeds.GET("/discards", r.dashboardHandler.RecentDiscards)
		feeds.GET("/recycled", r.dashboardHandler.RecentRecycled)
		feeds.GET("/reservations", r.dashboardHandler.RecentReservations)
	}

	apiV1.GET("/items/available", r.dashboardHandler.AvailableItems)
	apiV1.GET("/disposal-types", r.dashboardHandler.DisposalTypes)
}
