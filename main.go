package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/alinbpe/motel-management-system/config"
	"github.com/alinbpe/motel-management-system/controllers"
	"github.com/alinbpe/motel-management-system/routes"
	"github.com/alinbpe/motel-management-system/services"
	"github.com/alinbpe/motel-management-system/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established, migrations and seed applied")

	workflow := services.NewWorkflowService(db)

	authController := controllers.NewAuthController(workflow)
	cabinController := controllers.NewCabinController(workflow)
	cleaningController := controllers.NewCleaningController(workflow)
	userController := controllers.NewUserController(workflow)
	activityController := controllers.NewActivityController(workflow)

	router := routes.SetupRouter(db, authController, cabinController, cleaningController, userController, activityController)

	// Periodic stay cleanup: ends stays whose checkout date has passed.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := workflow.Store().CleanupStays(); err != nil {
					utils.ErrorLogger.Errorf("stay cleanup failed: %v", err)
				} else if n > 0 {
					utils.InfoLogger.Infof("stay cleanup ended %d expired stays", n)
				}
			case <-cleanupDone:
				return
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
