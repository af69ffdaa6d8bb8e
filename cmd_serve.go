package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

type CmdServe struct {
	global *GlobalOptions

	Listen string `short:"l" long:"listen" description:"Listen address (overrides config)"`
}

func init() {
	_, err := parser.AddCommand("serve",
		"Run the simplification service",
		"Serve topology-preserving simplification over HTTP",
		&CmdServe{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdServe) Execute(args []string) error {
	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	if cmd.Listen != "" {
		cfg.Listen = cmd.Listen
	}

	log.Println("========================================")
	log.Println("🚀 TopoCartGen Simplification Server")
	log.Println("========================================")
	log.Printf("Server starting on %s\n", cfg.Listen)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /simplify           - Simplify a batch of features")
	log.Println("  POST /simplifyGeoJSON    - Simplify named GeoJSON layers together")
	log.Println("  GET  /health             - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      NewServer(cfg).Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Server answers simplification requests with the configured defaults
type Server struct {
	cfg Config
}

func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg}
}

// Routes returns the service's handler
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/simplify", allowMethods(s.simplifyHandler, http.MethodPost))
	mux.HandleFunc("/simplifyGeoJSON", allowMethods(s.simplifyGeoJSONHandler, http.MethodPost))
	mux.HandleFunc("/health", allowMethods(healthHandler, http.MethodGet))
	return mux
}

// allowMethods answers CORS preflight for a route and rejects any other
// method than the ones listed
func allowMethods(next http.HandlerFunc, methods ...string) http.HandlerFunc {
	allowed := strings.Join(append(append([]string(nil), methods...), http.MethodOptions), ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", allowed)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		for _, m := range methods {
			if r.Method == m {
				next(w, r)
				return
			}
		}
		log.Printf("❌ Method not allowed: %s %s\n", r.Method, r.URL.Path)
		w.Header().Set("Allow", allowed)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type SimplifyRequest struct {
	Ratio    *float64  `json:"ratio,omitempty"`   // defaults to the configured ratio
	Options  *Options  `json:"options,omitempty"` // defaults to the configured options
	Features []Feature `json:"features"`
}

type SimplifyResponse struct {
	RunID       string       `json:"runId"`
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Features    []Feature    `json:"features,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Stats       *Stats       `json:"stats,omitempty"`
}

type SimplifyGeoJSONRequest struct {
	Ratio   *float64                              `json:"ratio,omitempty"`
	Options *Options                              `json:"options,omitempty"`
	Layers  map[string]*geojson.FeatureCollection `json:"layers"`
}

type SimplifyGeoJSONResponse struct {
	RunID       string                                `json:"runId"`
	Success     bool                                  `json:"success"`
	Message     string                                `json:"message,omitempty"`
	Layers      map[string]*geojson.FeatureCollection `json:"layers,omitempty"`
	Diagnostics []Diagnostic                          `json:"diagnostics,omitempty"`
	Stats       *Stats                                `json:"stats,omitempty"`
}

// params merges request overrides with the configured defaults
func (s *Server) params(ratio *float64, opts *Options) (float64, Options) {
	r := s.cfg.Ratio
	if ratio != nil {
		r = *ratio
	}
	o := s.cfg.Simplify
	if opts != nil {
		o = *opts
	}
	return r, o
}

func (s *Server) simplifyHandler(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log.Println("========================================")
	log.Printf("📍 Simplify request received (run %s)\n", runID)

	var req SimplifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ratio, opts := s.params(req.Ratio, req.Options)
	log.Printf("   Features: %d\n", len(req.Features))
	log.Printf("   Ratio: %v (%s, %s scope)\n", ratio, opts.RatioMode, opts.Scope)

	res, err := Simplify(req.Features, ratio, opts)
	if err != nil {
		log.Printf("❌ %v\n", err)
		writeJSON(w, http.StatusBadRequest, SimplifyResponse{RunID: runID, Message: err.Error()})
		log.Println("========================================")
		return
	}

	logResult(res)
	log.Println("========================================")
	writeJSON(w, http.StatusOK, SimplifyResponse{
		RunID:       runID,
		Success:     true,
		Features:    res.Features,
		Diagnostics: res.Diagnostics,
		Stats:       &res.Stats,
	})
}

func (s *Server) simplifyGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	log.Println("========================================")
	log.Printf("🗺️  GeoJSON simplify request received (run %s)\n", runID)

	var req SimplifyGeoJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Layers) == 0 {
		log.Println("⚠️  No input layers selected!")
		writeJSON(w, http.StatusBadRequest, SimplifyGeoJSONResponse{RunID: runID, Message: "no input layers"})
		return
	}

	names := make([]string, 0, len(req.Layers))
	for name := range req.Layers {
		names = append(names, name)
	}
	sort.Strings(names)

	layers := make([]*Layer, 0, len(names))
	for _, name := range names {
		fc := req.Layers[name]
		if fc == nil {
			fc = geojson.NewFeatureCollection()
		}
		layers = append(layers, &Layer{Name: name, Collection: fc})
		log.Printf("   Layer %s: %d features\n", name, len(fc.Features))
	}

	ratio, opts := s.params(req.Ratio, req.Options)
	batch := FlattenLayers(layers)
	res, err := Simplify(batch.Features, ratio, opts)
	if err != nil {
		log.Printf("❌ %v\n", err)
		writeJSON(w, http.StatusBadRequest, SimplifyGeoJSONResponse{RunID: runID, Message: err.Error()})
		log.Println("========================================")
		return
	}
	logResult(res)
	log.Println("========================================")

	out := make(map[string]*geojson.FeatureCollection, len(layers))
	for i, fc := range batch.Rebuild(res.Features) {
		out[layers[i].Name+s.cfg.OutputSuffix] = fc
	}
	writeJSON(w, http.StatusOK, SimplifyGeoJSONResponse{
		RunID:       runID,
		Success:     true,
		Layers:      out,
		Diagnostics: res.Diagnostics,
		Stats:       &res.Stats,
	})
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}
