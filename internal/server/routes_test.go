package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tarot-game/internal/database"
)

type fakeReader struct {
	rounds []database.RoundResult
	err    error
}

func (f *fakeReader) GetAll() ([]database.RoundResult, error) {
	return f.rounds, f.err
}

func (f *fakeReader) GetByID(id string) (database.RoundResult, error) {
	if f.err != nil {
		return database.RoundResult{}, f.err
	}
	for _, r := range f.rounds {
		if r.ID == id {
			return r, nil
		}
	}
	return database.RoundResult{}, sql.ErrNoRows
}

func (f *fakeReader) GetByPlayer(seatName string) ([]database.RoundResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []database.RoundResult
	for _, r := range f.rounds {
		for _, s := range []string{r.Seat1, r.Seat2, r.Seat3, r.Seat4, r.Seat5} {
			if s == seatName {
				out = append(out, r)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, sql.ErrNoRows
	}
	return out, nil
}

func TestRoutes(t *testing.T) {
	reader := &fakeReader{rounds: []database.RoundResult{
		{ID: "r1", Seat1: "ana", Seat2: "bo", Seat3: "cy", Seat4: "di", Seat5: "ed", Value: 35},
		{ID: "r2", Seat1: "fe", Seat2: "bo", Seat3: "gu", Seat4: "hi", Seat5: "io", Value: -56},
	}}
	mux := http.NewServeMux()
	HandleRoutes(mux, reader)

	cases := []struct {
		name   string
		path   string
		status int
		count  int // rounds expected in a list response
		id     string
	}{
		{name: "all rounds", path: "/api/rounds", status: http.StatusOK, count: 2},
		{name: "one round", path: "/api/rounds/r2", status: http.StatusOK, id: "r2"},
		{name: "unknown round", path: "/api/rounds/r9", status: http.StatusNotFound},
		{name: "rounds of a player", path: "/api/rounds/player/bo", status: http.StatusOK, count: 2},
		{name: "rounds of another player", path: "/api/rounds/player/cy", status: http.StatusOK, count: 1},
		{name: "unknown player", path: "/api/rounds/player/zed", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("GET %s = %d, want %d", tc.path, rec.Code, tc.status)
			}
			if tc.status != http.StatusOK {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("Content-Type = %q", ct)
			}
			if tc.id != "" {
				var got database.RoundResult
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.ID != tc.id {
					t.Fatalf("body = %s, %v", rec.Body, err)
				}
				return
			}
			var got []database.RoundResult
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || len(got) != tc.count {
				t.Fatalf("body = %s, %v", rec.Body, err)
			}
		})
	}
}

func TestRoutesEmptyAndFailing(t *testing.T) {
	mux := http.NewServeMux()
	HandleRoutes(mux, &fakeReader{})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rounds", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("empty list = %d %q", rec.Code, rec.Body)
	}

	mux = http.NewServeMux()
	HandleRoutes(mux, &fakeReader{err: errors.New("disk on fire")})
	for _, path := range []string{"/api/rounds", "/api/rounds/r1", "/api/rounds/player/ana"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("GET %s = %d, want 500", path, rec.Code)
		}
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rounds", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/rounds = %d, want 405", rec.Code)
	}
}
