package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"
	"time"

	intconfig "busbooking/internal/config"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/http/middleware"
	"busbooking/internal/repositories"
	"busbooking/internal/services"
	"busbooking/internal/uploads"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries everything the router mounts.
type Deps struct {
	Env      intconfig.Env
	DB       *sql.DB
	Ledger   *services.SeatLedger
	Recorder *services.BookingRecorder
	Catalog  services.CatalogService
	Bookings repositories.BookingRepository
	Uploads  *uploads.Store
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     d.Env.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID", middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Session([]byte(d.Env.SessionSecret)))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	system := h.SystemHandlers{DB: d.DB}
	session := h.SessionHandlers{Secret: []byte(d.Env.SessionSecret)}
	catalog := h.CatalogHandlers{Catalog: d.Catalog}
	seats := h.SeatHandlers{Ledger: d.Ledger, HoldTimeout: d.Env.HoldTimeout}
	bookings := h.BookingHandlers{
		Ledger:   d.Ledger,
		Recorder: d.Recorder,
		Bookings: d.Bookings,
		Docs:     services.DocsService{Bookings: d.Bookings},
	}
	upload := h.UploadHandlers{Store: d.Uploads}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)

		api.POST("/session", session.Create)

		api.GET("/cities", catalog.Cities)
		api.GET("/routes", catalog.Routes)
		api.GET("/dates", catalog.Dates)
		api.GET("/trips", catalog.Trips)

		trips := api.Group("/trips/:id")
		trips.GET("/seats", seats.GetSeats)
		trips.POST("/seats/:seat/hold", seats.Hold)
		trips.POST("/seats/:seat/release", seats.Release)
		trips.POST("/book", bookings.Book)
		trips.GET("/bookings", bookings.ListByTrip)

		api.GET("/bookings/:id/e-ticket", bookings.ETicket)

		api.POST("/uploads", upload.Upload)
	}

	return r
}
