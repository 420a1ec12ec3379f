package main

import (
	"context"
	"log"

	"booknest/config"
	"booknest/internal/app"
)

func main() {
	cfg := config.LoadConfig()

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application stopped with error: %v", err)
	}
}
