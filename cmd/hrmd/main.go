package main

import (
	"log"

	"github.com/joho/godotenv"

	"gohrm/internal/api"
	"gohrm/internal/config"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		log.Printf("[hrmd] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[hrmd] configuration error: %v", err)
	}

	server := api.NewServer(cfg)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("[hrmd] server stopped: %v", err)
	}
}
