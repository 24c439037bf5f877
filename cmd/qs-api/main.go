package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"QuicSieve/internal/config"
	"QuicSieve/internal/query"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Find the first enabled ClickHouse writer config; the API reads back
	// what the extractor wrote there.
	var chCfg *config.ClickHouseConfig
	for _, def := range cfg.Writers {
		if def.Enabled && def.Type == "clickhouse" {
			chCfg = &def.ClickHouse
			break
		}
	}
	if chCfg == nil {
		log.Fatalf("No enabled ClickHouse writer found in config. API server cannot start.")
	}

	querier, err := query.NewClickHouseQuerier(*chCfg)
	if err != nil {
		log.Fatalf("Failed to create querier: %v", err)
	}

	r := mux.NewRouter()
	apiHandler := &APIHandler{querier: querier}
	r.HandleFunc("/api/v1/variants/{variant}/summary", apiHandler.variantSummaryHandler).Methods("GET")
	r.HandleFunc("/api/v1/flows/trace", apiHandler.traceFlowHandler).Methods("GET")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// variantSummaryHandler aggregates one dataset variant.
func (h *APIHandler) variantSummaryHandler(w http.ResponseWriter, r *http.Request) {
	variant := mux.Vars(r)["variant"]

	summary, err := h.querier.SummarizeVariant(r.Context(), variant)
	if err != nil {
		http.Error(w, "failed to summarize variant: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, summary)
}

// traceFlowHandler returns every stored record of one flow.
func (h *APIHandler) traceFlowHandler(w http.ResponseWriter, r *http.Request) {
	flowKey := r.URL.Query().Get("flow_key")
	if flowKey == "" {
		http.Error(w, "flow_key query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := h.querier.TraceFlow(r.Context(), flowKey)
	if err != nil {
		http.Error(w, "failed to trace flow: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
