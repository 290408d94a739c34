package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tarot-game/internal/database"
)

// RoundReader serves stored rounds to the HTTP API.
type RoundReader interface {
	GetAll() ([]database.RoundResult, error)
	GetByID(id string) (database.RoundResult, error)
	GetByPlayer(seatName string) ([]database.RoundResult, error)
}

func HandleRoutes(mux *http.ServeMux, db RoundReader) {
	mux.HandleFunc("GET /api/rounds/player/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetRoundsByPlayerHandler(db, w, r)
	})
	log.Println("Registered route: /api/rounds/player/{name}")

	mux.HandleFunc("GET /api/rounds/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetRoundHandler(db, w, r)
	})
	log.Println("Registered route: /api/rounds/{id}")

	mux.HandleFunc("GET /api/rounds", func(w http.ResponseWriter, r *http.Request) {
		GetRoundsHandler(db, w, r)
	})
	log.Println("Registered route: /api/rounds")
}

func GetRoundsByPlayerHandler(db RoundReader, w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByPlayer(player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No rounds found for player", http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch rounds for %s: %v", player, err)
		http.Error(w, "Failed to fetch rounds", http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

func GetRoundHandler(db RoundReader, w http.ResponseWriter, r *http.Request) {
	result, err := db.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Round not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch round %s: %v", r.PathValue("id"), err)
		http.Error(w, "Failed to fetch round", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func GetRoundsHandler(db RoundReader, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		log.Printf("Failed to fetch rounds: %v", err)
		http.Error(w, "Failed to fetch rounds", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []database.RoundResult{}
	}
	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
