package handlers

import (
	"net/http"

	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

// CatalogHandlers serves the read-only route/trip browse endpoints.
type CatalogHandlers struct {
	Catalog services.CatalogService
}

// GET /api/cities
func (h CatalogHandlers) Cities(c *gin.Context) {
	cities, err := h.Catalog.Cities()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// GET /api/routes?from=&to=
func (h CatalogHandlers) Routes(c *gin.Context) {
	routes, err := h.Catalog.SearchRoutes(c.Query("from"), c.Query("to"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GET /api/dates?route_id=
func (h CatalogHandlers) Dates(c *gin.Context) {
	dates, err := h.Catalog.Dates(c.Query("route_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// GET /api/trips?route_id=&date=
func (h CatalogHandlers) Trips(c *gin.Context) {
	trips, err := h.Catalog.SearchTrips(c.Query("route_id"), c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}
