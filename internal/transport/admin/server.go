package admin

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"voxelmaze.ai/internal/persistence/indexdb"
)

// Index is the read side of the maze index.
type Index interface {
	ListMazes(ctx context.Context, limit int) ([]indexdb.MazeRow, error)
	Stats() indexdb.Stats
}

type Server struct {
	idx Index

	// AllowRemote disables the loopback-only guard.
	AllowRemote bool
}

func NewServer(idx Index) *Server {
	return &Server{idx: idx}
}

type mazesResponse struct {
	Mazes []indexdb.MazeRow `json:"mazes"`
	Stats indexdb.Stats     `json:"stats"`
}

// MazesHandler serves GET /admin/v1/mazes?limit=N.
func (s *Server) MazesHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.AllowRemote && !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		if s.idx == nil {
			http.Error(rw, "index disabled", http.StatusServiceUnavailable)
			return
		}

		limit := 20
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 1000 {
				http.Error(rw, "bad limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		rows, err := s.idx.ListMazes(r.Context(), limit)
		if err != nil {
			http.Error(rw, err.Error(), http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []indexdb.MazeRow{}
		}
		writeJSON(rw, mazesResponse{Mazes: rows, Stats: s.idx.Stats()})
	}
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(v)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
