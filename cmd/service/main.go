package main

import (
	"net/http"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"tristats-edge/internal/api"
	"tristats-edge/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	router := api.NewRouter(cfg)

	log.Infof("starting HTTP server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
