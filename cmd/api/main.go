package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"nft-market-backend/pkg/container"
	"nft-market-backend/pkg/logger"
)

func main() {
	// .env is for local development; production relies on system
	// environment variables.
	if err := godotenv.Load(); err != nil {
		fmt.Println("no .env file found, using system environment variables")
	}

	env := getEnv("APP_ENV", "development")
	logger.Init(env)
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	serve()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func serve() {
	appContainer, err := container.NewContainer()
	if err != nil {
		logger.Fatal("failed to initialize container", err)
	}
	defer appContainer.Cleanup()

	router := SetupRouter(appContainer)

	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("server starting", map[string]interface{}{
			"port":        port,
			"environment": appContainer.Config.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", err)
	}
	logger.Info("server exited", nil)
}
