package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/document"
	"github.com/claimlens/claimlens/internal/extractor"
	"github.com/claimlens/claimlens/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Check server health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Check server readiness (includes extraction backend)
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Backend: "ok"}

	client := svcctx.ExtractFrom(r.Context())
	if client == nil {
		resp.Status = "degraded"
		resp.Backend = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	if _, err := client.Health(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Backend = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes extraction backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status:  %s\n", resp.Status)
			if resp.Backend != "" {
				fmt.Printf("Backend: %s\n", resp.Backend)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server"`
	Documents DocumentsStatus `json:"documents"`
	Extractor ExtractorStatus `json:"extractor"`
}

// DocumentsStatus summarizes the registry.
type DocumentsStatus struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	InProgress int `json:"in_progress"`
	Pending    int `json:"pending"`
}

// ExtractorStatus shows extraction backend container and health status.
type ExtractorStatus struct {
	Container string `json:"container"`
	Health    string `json:"health"`
	URL       string `json:"url"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct {
	// ExtractorManager is set by server since it's not in Services.
	// Nil when the extractor container is unmanaged.
	ExtractorManager *extractor.DockerManager
}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Get detailed server status
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server: "running",
	}

	if store := svcctx.RegistryFrom(r.Context()); store != nil {
		for _, doc := range store.List() {
			resp.Documents.Total++
			switch {
			case doc.Stage == document.StageComplete:
				resp.Documents.Completed++
			case doc.Stage == document.StageError:
				resp.Documents.Failed++
			case doc.Stage == document.StageQueued:
				resp.Documents.Pending++
			default:
				resp.Documents.InProgress++
			}
		}
	}

	if e.ExtractorManager != nil {
		status, err := e.ExtractorManager.Status(r.Context())
		if err != nil {
			resp.Extractor.Container = "error"
		} else {
			resp.Extractor.Container = string(status)
		}
		resp.Extractor.URL = e.ExtractorManager.URL()
	} else {
		resp.Extractor.Container = "unmanaged"
	}

	if client := svcctx.ExtractFrom(r.Context()); client != nil {
		resp.Extractor.URL = client.BaseURL()
		if _, err := client.Health(r.Context()); err != nil {
			resp.Extractor.Health = "unhealthy"
		} else {
			resp.Extractor.Health = "healthy"
		}
	} else {
		resp.Extractor.Health = "not_initialized"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			fmt.Printf("Extractor:\n")
			fmt.Printf("  Container: %s\n", resp.Extractor.Container)
			fmt.Printf("  Health:    %s\n", resp.Extractor.Health)
			fmt.Printf("  URL:       %s\n", resp.Extractor.URL)
			fmt.Printf("Documents:\n")
			fmt.Printf("  Total:       %d\n", resp.Documents.Total)
			fmt.Printf("  Completed:   %d\n", resp.Documents.Completed)
			fmt.Printf("  Failed:      %d\n", resp.Documents.Failed)
			fmt.Printf("  In progress: %d\n", resp.Documents.InProgress)
			fmt.Printf("  Pending:     %d\n", resp.Documents.Pending)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
