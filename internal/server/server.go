// Package server assembles the HTTP surface of the globe service.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/terraviz/globe/internal/api"
	"github.com/terraviz/globe/internal/assets"
	"github.com/terraviz/globe/internal/db"
	"github.com/terraviz/globe/internal/service"
)

// Config holds the server configuration.
type Config struct {
	Host         string
	Port         string
	DataDir      string
	ManifestPath string // Optional path to the asset manifest YAML
}

// Server is the globe HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	services *api.Services
}

// New creates a new globe server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("globe API", "1.0.0")
	humaConfig.Info.Description = "Earth globe geometry pipeline: boundary meshes, elevation sampling, and great-circle math for 3D renderers."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	manifest := assets.DefaultManifest()
	if cfg.ManifestPath != "" {
		if m, err := assets.ReadManifest(cfg.ManifestPath); err == nil {
			manifest = m
		} else {
			fmt.Printf("manifest %s unusable, using defaults: %v\n", cfg.ManifestPath, err)
		}
	}

	bus := service.NewEventBus()
	loader := assets.NewLoader()
	services := &api.Services{
		Layer: service.NewLayerService(cfg.DataDir),
		Scene: service.NewSceneService(manifest, loader, assets.NewCache(), bus),
		Bus:   bus,
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
	}

	// The gazetteer degrades to the embedded landmark set when DuckDB
	// is unavailable.
	if conn, err := db.Open(db.Config{DataDir: cfg.DataDir, DBName: "globe"}); err == nil {
		s.db = conn
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gaz, err := service.NewGazetteerService(ctx, s.db)
	if err != nil {
		gaz, _ = service.NewGazetteerService(ctx, nil)
	}
	services.Gazetteer = gaz

	s.routes()
	return s
}

// OpenAPI returns the generated API description.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	s.services.Scene.ClearCache()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Server) routes() {
	// Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services)

	infoHandler := api.NewInfoHandler(s.config.DataDir, s.db != nil)
	infoHandler.RegisterRoutes(s.humaAPI)

	dbHandler := api.NewDBHandler(s.db)
	dbHandler.RegisterRoutes(s.humaAPI)

	// Raw texture bytes, outside the JSON API
	s.mux.Handle("/textures/", http.StripPrefix("/textures/", s.handleTextures()))

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "globe",
		"status":  "running",
	})
}

// handleTextures serves cached texture rasters with CORS headers so a
// browser-hosted renderer on another origin can fetch them.
func (s *Server) handleTextures() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, Accept-Ranges")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		name := r.URL.Path
		raw, ok := s.services.Scene.TextureBytes(r.Context(), name)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(raw))
		w.Write(raw)
	})
}
