package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/document"
	"github.com/claimlens/claimlens/internal/svcctx"
)

// DocumentSummary is the list-view projection of a document record.
type DocumentSummary struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Size     int64              `json:"size"`
	Pages    int                `json:"pages,omitempty"`
	Stage    document.Stage     `json:"stage"`
	Message  string             `json:"message,omitempty"`
	Metadata *document.Metadata `json:"metadata,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func summarize(doc document.Document) DocumentSummary {
	return DocumentSummary{
		ID:       doc.ID,
		Name:     doc.Name,
		Size:     doc.Size,
		Pages:    doc.Pages,
		Stage:    doc.Stage,
		Message:  doc.Message,
		Metadata: doc.Metadata,
		Error:    doc.Error,
	}
}

// ListDocumentsResponse is the response for the document list.
type ListDocumentsResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

// ListDocumentsEndpoint handles GET /api/documents.
type ListDocumentsEndpoint struct{}

var _ api.Endpoint = (*ListDocumentsEndpoint)(nil)

func (e *ListDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents", e.handler
}

func (e *ListDocumentsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List all documents
//	@Tags		documents
//	@Produce	json
//	@Success	200	{object}	ListDocumentsResponse
//	@Router		/api/documents [get]
func (e *ListDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.RegistryFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "registry not initialized")
		return
	}

	resp := ListDocumentsResponse{Documents: []DocumentSummary{}}
	for _, doc := range store.List() {
		resp.Documents = append(resp.Documents, summarize(doc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListDocumentsResponse
			if err := client.Get(cmd.Context(), "/api/documents", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetDocumentEndpoint handles GET /api/documents/{id}.
type GetDocumentEndpoint struct{}

var _ api.Endpoint = (*GetDocumentEndpoint)(nil)

func (e *GetDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}", e.handler
}

func (e *GetDocumentEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get one document, including its raw extraction result
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"Document ID"
//	@Success	200	{object}	document.Document
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/documents/{id} [get]
func (e *GetDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

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
	writeJSON(w, http.StatusOK, doc)
}

func (e *GetDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a document by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var doc document.Document
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0], &doc); err != nil {
				return err
			}
			return api.Output(doc)
		},
	}
}
