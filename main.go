package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"busbooking/internal/async"
	"busbooking/internal/broadcast"
	intconfig "busbooking/internal/config"
	router "busbooking/internal/http"
	"busbooking/internal/notify"
	"busbooking/internal/repositories"
	"busbooking/internal/services"
	"busbooking/internal/uploads"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env.DBDSN)
	if err != nil {
		log.Fatalf("Gagal konek DB: %v", err)
	}
	defer db.Close()

	snapshotRepo := repositories.SeatSnapshotRepository{DB: db}
	bookingRepo := repositories.BookingRepository{DB: db}
	customerRepo := repositories.CustomerRepository{DB: db}
	catalogRepo := repositories.CatalogRepository{DB: db}
	for _, ensure := range []func() error{
		snapshotRepo.EnsureTable,
		bookingRepo.EnsureTable,
		customerRepo.EnsureTable,
	} {
		if err := ensure(); err != nil {
			log.Fatalf("Gagal siapkan tabel: %v", err)
		}
	}

	writer := async.NewPool(2, 256)
	defer writer.Close()

	mailer := notify.NewEmailService(env.SMTPHost, env.SMTPPort, env.SMTPUsername, env.SMTPPassword, env.SMTPFrom)

	ledger := services.NewSeatLedger(snapshotRepo, writer)
	recorder := services.NewBookingRecorder(bookingRepo, customerRepo, writer, mailer)
	catalog := services.CatalogService{Repo: catalogRepo, Seats: ledger}

	uploadStore, err := uploads.NewStore(env.UploadDir)
	if err != nil {
		log.Fatalf("Gagal siapkan upload dir: %v", err)
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// Expiry sweep reclaims seats abandoned mid-selection.
	go func() {
		ticker := time.NewTicker(env.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := ledger.ExpireStale(env.HoldTimeout); n > 0 {
					log.Printf("[SWEEP] %d kursi kadaluarsa direset", n)
				}
			}
		}
	}()

	broadcaster := &broadcast.Broadcaster{
		Source:    ledger,
		Addr:      env.BroadcastAddr,
		Interval:  env.BroadcastInterval,
		TripLimit: env.BroadcastTrips,
	}
	go broadcaster.Run(ctx)

	r := router.NewRouter(router.Deps{
		Env:      env,
		DB:       db,
		Ledger:   ledger,
		Recorder: recorder,
		Catalog:  catalog,
		Bookings: bookingRepo,
		Uploads:  uploadStore,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown server gagal: %v", err)
	}

	// Drain pending snapshot/booking writes before the DB closes.
	writer.Close()

	log.Println("Server berhenti dengan aman.")
}
