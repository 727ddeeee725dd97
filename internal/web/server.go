package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"logforge/internal/gen"
)

//go:embed templates/*
var content embed.FS

// Server streams generated log lines to websocket clients, for testing live
// log consumers without touching disk.
type Server struct {
	gen       *gen.Generator
	interval  time.Duration
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]bool
	broadcast chan Message
	mu        sync.RWMutex
	server    *http.Server
	stats     Stats
	done      chan struct{}
	stopOnce  sync.Once
}

// Message is one generated line sent to clients
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Message   string    `json:"message"`
	Line      string    `json:"line"`
}

// Stats tracks what the server has produced so far
type Stats struct {
	TotalLines int64            `json:"total_lines"`
	PerLevel   map[string]int64 `json:"per_level"`
	mu         sync.RWMutex
}

// NewServer creates a streaming server around a generator
func NewServer(addr string, g *gen.Generator, interval time.Duration) *Server {
	s := &Server{
		gen:       g,
		interval:  interval,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Message, 1000),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		stats: Stats{
			PerLevel: make(map[string]int64),
		},
		done: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/stats", s.handleStats)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return s
}

// Start runs the producer and broadcaster and serves until Stop.
func (s *Server) Start() error {
	go s.broadcaster()
	go s.produce()

	log.Printf("Streaming generated logs on ws://%s/ws", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	return s.server.Shutdown(ctx)
}

// produce draws one entry per tick and hands it to the broadcaster.
func (s *Server) produce() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			entry := s.gen.Next()
			msg := Message{
				Timestamp: entry.Time,
				Level:     entry.Level.Tag(),
				Component: entry.Component,
				Message:   entry.Message,
				Line:      s.gen.Format(entry),
			}
			select {
			case s.broadcast <- msg:
			default:
				// Channel full, drop message
			}
		case <-s.done:
			return
		}
	}
}

func (s *Server) broadcaster() {
	for {
		select {
		case msg := <-s.broadcast:
			s.mu.RLock()
			clients := make([]*websocket.Conn, 0, len(s.clients))
			for client := range s.clients {
				clients = append(clients, client)
			}
			s.mu.RUnlock()

			for _, client := range clients {
				if err := client.WriteJSON(msg); err != nil {
					s.mu.Lock()
					delete(s.clients, client)
					s.mu.Unlock()
					client.Close()
				}
			}

			s.updateStats(msg)
		case <-s.done:
			return
		}
	}
}

func (s *Server) updateStats(msg Message) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	s.stats.TotalLines++
	s.stats.PerLevel[msg.Level]++
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(content, "templates/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Layout string
	}{
		Layout: s.gen.Layout().String(),
	}

	tmpl.Execute(w, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Keep the connection open until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			break
		}
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.stats.mu.RLock()
	perLevel := make(map[string]int64, len(s.stats.PerLevel))
	for k, v := range s.stats.PerLevel {
		perLevel[k] = v
	}
	stats := struct {
		TotalLines int64            `json:"total_lines"`
		PerLevel   map[string]int64 `json:"per_level"`
	}{
		TotalLines: s.stats.TotalLines,
		PerLevel:   perLevel,
	}
	s.stats.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode stats: %v", err), http.StatusInternalServerError)
	}
}
