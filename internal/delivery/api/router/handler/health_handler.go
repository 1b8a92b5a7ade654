package handler

import (
	"net/http"

	"greenhood/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports that the HTTP front end is serving.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
