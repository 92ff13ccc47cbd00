package main

import (
	"automarket/api"
	"automarket/config"
	"automarket/db"
	"automarket/internal/model"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath = pflag.String("config", "config.toml", "Path to the TOML config file")
	seed       = pflag.Bool("seed", false, "Seeds brands and locations from the config before starting")
	genSecret  = pflag.Bool("gen-secret", false, "Prints a new jwt.secret and exits")
)

func main() {
	pflag.Parse()

	if *genSecret {
		fmt.Println(config.GenSecret())
		return
	}

	gin.SetMode(gin.ReleaseMode)

	err := config.Setup(*configPath)
	if errors.Is(err, config.ErrMissingSecret) {
		fmt.Fprintf(os.Stderr, "No jwt.secret configured. You can use this one:\n\n%s\n", config.GenSecret())
		os.Exit(1)
	}

	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := api.NewRouter(ctx)
	if err != nil {
		panic(err)
	}
	defer a.Close()

	if *seed {
		var brands []model.Brand
		var locations []model.Location

		if err := viper.UnmarshalKey("seed.brands", &brands); err != nil {
			zap.L().Fatal("Invalid seed.brands", zap.Error(err))
		}

		if err := viper.UnmarshalKey("seed.locations", &locations); err != nil {
			zap.L().Fatal("Invalid seed.locations", zap.Error(err))
		}

		if err := db.Seed(a.Deps.DB, brands, locations); err != nil {
			zap.L().Fatal("Failed to seed reference data", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Graceful shutdown failed", zap.Error(err))
	}
}
