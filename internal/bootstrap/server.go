package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/aircheckin/api"
	"github.com/Domenick1991/aircheckin/config"
	"github.com/Domenick1991/aircheckin/internal/service/checkin"
	"github.com/Domenick1991/aircheckin/internal/service/overbooking"
	"github.com/Domenick1991/aircheckin/internal/service/seats"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, checkInSvc checkin.CheckInUseCase, seatSvc seats.SeatUseCase, overbookingSvc overbooking.OverbookingUseCase) error {
	router := gin.Default()

	checkInHandler := api.NewCheckInHandler(checkInSvc)
	flightHandler := api.NewFlightHandler(seatSvc, overbookingSvc)

	v1 := router.Group("/api")
	checkInHandler.Register(v1.Group("/checkin"))
	flightHandler.Register(v1.Group("/flights"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
