// Package server exposes the tracker over HTTP so a scoreboard page or a
// phone on the court can read and edit scores.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/state"
)

type Server struct {
	tracker *state.Tracker
	log     *zap.Logger
}

func New(tracker *state.Tracker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{tracker: tracker, log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/data.json", s.handleDocument)
	r.Route("/api", func(r chi.Router) {
		r.Get("/matches", s.handleMatches)
		r.Get("/matches/{matchID}", s.handleMatch)
		r.Put("/matches/{matchID}/score", s.handleSetScore)
		r.Delete("/matches/{matchID}/score", s.handleClearScore)
		r.Get("/stats", s.handleStats)
		r.Get("/records", s.handleRecords)
		r.Get("/analysis", s.handleAnalysis)
		r.Get("/overview", s.handleOverview)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	court := 0
	if v := r.URL.Query().Get("court"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "court must be a positive integer")
			return
		}
		court = n
	}
	writeJSON(w, http.StatusOK, s.tracker.Matches(court))
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.tracker.Match(chi.URLParam(r, "matchID"))
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// maxScoreBody caps a score edit request body.
const maxScoreBody = 4 << 10

type scoreRequest struct {
	ScoreA []int `json:"scoreA"`
	ScoreB []int `json:"scoreB"`
}

func toScore(v []int) model.Score {
	var s model.Score
	for i := 0; i < len(s) && i < len(v); i++ {
		s[i] = v[i]
	}
	return s
}

func (s *Server) handleSetScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	body := http.MaxBytesReader(w, r.Body, maxScoreBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	m, err := s.tracker.SetScore(chi.URLParam(r, "matchID"), toScore(req.ScoreA), toScore(req.ScoreB))
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleClearScore(w http.ResponseWriter, r *http.Request) {
	m, err := s.tracker.ClearScore(chi.URLParam(r, "matchID"))
	if err != nil {
		s.writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.PlayerStats())
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.PlayerRecords())
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Analyze(r.URL.Query().Get("player")))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Overview())
}

func (s *Server) writeTrackerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrMatchNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, state.ErrNegativeScore):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("tracker", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
