package main

import (
	"log"
	"net/http"

	"tarot-game/internal/config"
	"tarot-game/internal/database"
	"tarot-game/internal/server"
	"tarot-game/internal/strategy"
)

func main() {
	log.Println("Starting Tarot server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	hub := server.NewHub(db, cfg.SeatNames, cfg.RNGSeed, strategy.NewRandomFactory())
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	server.HandleRoutes(mux, db)

	log.Printf("Listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, mux))
}
