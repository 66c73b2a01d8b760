package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/export"
	"github.com/claimlens/claimlens/internal/svcctx"
)

// MergedJSONEndpoint handles GET /api/export/claims.json.
type MergedJSONEndpoint struct{}

var _ api.Endpoint = (*MergedJSONEndpoint)(nil)

func (e *MergedJSONEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/export/claims.json", e.handler
}

func (e *MergedJSONEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download merged claims as JSON
//	@Description	Combines the claims of all completed documents into one array; requires at least two completed documents
//	@Tags			export
//	@Produce		json
//	@Success		200	{array}		object
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/export/claims.json [get]
func (e *MergedJSONEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.RegistryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "registry not initialized")
		return
	}

	data, err := export.MergedJSON(store.Completed())
	if err != nil {
		if errors.Is(err, export.ErrNotEnoughDocuments) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := export.MergedFilename("json", time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (e *MergedJSONEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "json",
		Short: "Download merged claims as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, err := client.GetRaw(cmd.Context(), "/api/export/claims.json")
			if err != nil {
				return err
			}
			return writeExport(cmd, data, outputFile)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write to file instead of stdout")
	return cmd
}

// MergedCSVEndpoint handles GET /api/export/claims.csv.
type MergedCSVEndpoint struct{}

var _ api.Endpoint = (*MergedCSVEndpoint)(nil)

func (e *MergedCSVEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/export/claims.csv", e.handler
}

func (e *MergedCSVEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Download merged claims as CSV
//	@Description	Flattens the claims of all completed documents; columns are the union of claim field names in first-seen order
//	@Tags			export
//	@Produce		text/csv
//	@Success		200	{string}	string
//	@Failure		409	{object}	ErrorResponse
//	@Router			/api/export/claims.csv [get]
func (e *MergedCSVEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.RegistryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "registry not initialized")
		return
	}

	data, err := export.MergedCSV(store.Completed())
	if err != nil {
		if errors.Is(err, export.ErrNotEnoughDocuments) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := export.MergedFilename("csv", time.Now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (e *MergedCSVEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Download merged claims as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, err := client.GetRaw(cmd.Context(), "/api/export/claims.csv")
			if err != nil {
				return err
			}
			return writeExport(cmd, data, outputFile)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write to file instead of stdout")
	return cmd
}

// DocumentResultEndpoint handles GET /api/documents/{id}/result.
type DocumentResultEndpoint struct{}

var _ api.Endpoint = (*DocumentResultEndpoint)(nil)

func (e *DocumentResultEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/result", e.handler
}

func (e *DocumentResultEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Download one document's raw extracted schema
//	@Tags		export
//	@Produce	json
//	@Param		id	path		string	true	"Document ID"
//	@Success	200	{object}	object
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/api/documents/{id}/result [get]
func (e *DocumentResultEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	store := svcctx.RegistryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "registry not initialized")
		return
	}

	doc, ok := store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("document %s not found", id))
		return
	}

	data, err := export.DocumentJSON(doc)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DocumentFilename(doc)))
	w.Write(data)
}

func (e *DocumentResultEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "result <id>",
		Short: "Download a document's raw extracted schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, err := client.GetRaw(cmd.Context(), "/api/documents/"+args[0]+"/result")
			if err != nil {
				return err
			}
			return writeExport(cmd, data, outputFile)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write to file instead of stdout")
	return cmd
}

// writeExport writes downloaded bytes to a file, or stdout when no file given.
func writeExport(cmd *cobra.Command, data []byte, outputFile string) error {
	if outputFile == "" {
		cmd.OutOrStdout().Write(data)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	cmd.Printf("Wrote %s\n", outputFile)
	return nil
}
