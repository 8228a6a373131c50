package main

import (
	"flag"
	"log"
	"net/http"

	"four-hundred-game/internal/config"
	"four-hundred-game/internal/database"
	"four-hundred-game/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (defaults apply when empty)")
	flag.Parse()

	log.Println("Starting 400 server...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db := database.New(cfg.DatabasePath)

	hub := server.NewHub(cfg, &db)
	go hub.Run()

	go func() {
		if err := server.ListenTCP(hub, cfg.TCPAddr); err != nil {
			db.Close()
			log.Fatalf("TCP listener failed: %v", err)
		}
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	server.HandleRoutes(&db)

	err = http.ListenAndServe(cfg.HTTPAddr, nil)
	db.Close()
	log.Fatalf("HTTP server failed: %v", err)
}
