// Package server assembles the map style HTTP server.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"go.uber.org/zap"

	"github.com/joeblew999/plat-style/internal/api"
	"github.com/joeblew999/plat-style/internal/api/editor"
	"github.com/joeblew999/plat-style/internal/db"
	"github.com/joeblew999/plat-style/internal/llm"
	"github.com/joeblew999/plat-style/internal/service"
	"github.com/joeblew999/plat-style/internal/style"
)

// Version is reported by /health and the OpenAPI document.
const Version = "0.1.0"

const loadTimeout = 15 * time.Second

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      string
	DataDir   string
	WebDir    string // Path to web/ directory for the editor page and static files
	BaseStyle string // style.json path or URL; empty selects style.DefaultBaseStyle
	Center    orb.Point
	Zoom      maptile.Zoom
	LLM       llm.Config
	Logger    *zap.Logger
}

// Server is the map style HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	bus      *service.EventBus
	services *api.Services
	logger   *zap.Logger
}

// New creates a new server. A base style or database that cannot be opened
// is logged and the routes depending on it answer 503.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseStyle == "" {
		cfg.BaseStyle = style.DefaultBaseStyle
	}

	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-style API", Version)
	humaConfig.Info.Description = "AI-assisted map style engine: generate, normalize and apply color styles to a MapLibre style document."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	s := &Server{
		config:  cfg,
		mux:     mux,
		humaAPI: humago.New(mux, humaConfig),
		bus:     service.NewEventBus(),
		logger:  logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	var history *service.HistoryService
	conn, err := db.Open(db.Config{DataDir: cfg.DataDir})
	if err == nil {
		history, err = service.NewHistoryService(ctx, conn)
		if err != nil {
			conn.Close()
		} else {
			s.db = conn
		}
	}
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
	}

	s.services = &api.Services{
		Styles:  service.NewStyleService(llm.New(cfg.LLM), history, s.bus, logger),
		Themes:  service.NewThemeService(cfg.DataDir, s.bus),
		History: history,
	}

	base, err := style.LoadDocument(ctx, cfg.BaseStyle)
	if err != nil {
		logger.Warn("base style not loaded, map routes disabled",
			zap.String("location", cfg.BaseStyle), zap.Error(err))
	} else {
		base.SetView(cfg.Center, cfg.Zoom)
		s.services.Session = service.NewSession(base, style.NewOrchestrator(nil, logger), s.bus)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Close closes server resources.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Server) routes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(s.services, api.InfoBody{
		Name:      "plat-style",
		Version:   Version,
		DataDir:   s.config.DataDir,
		BaseStyle: s.config.BaseStyle,
		Model:     s.config.LLM.Model,
	}))

	// Register Editor SSE routes using Huma + Datastar SDK
	editor.NewStyleHandler(s.services.Styles, s.services.Session, s.logger).RegisterRoutes(s.humaAPI)
	editor.NewEventHandler(s.bus).RegisterRoutes(s.humaAPI)

	// Static files and the editor page
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
		s.mux.HandleFunc("/editor", s.handleEditor)
	}
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-style",
		"status":  "running",
	})
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.config.WebDir, "templates", "editor.html"))
}
