package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/pdfinfo"
	"github.com/claimlens/claimlens/internal/queue"
	"github.com/claimlens/claimlens/internal/svcctx"
)

// UploadResponse reports the documents accepted from one upload batch.
type UploadResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

// UploadDocumentsEndpoint handles POST /api/documents with multipart uploads.
type UploadDocumentsEndpoint struct{}

var _ api.Endpoint = (*UploadDocumentsEndpoint)(nil)

func (e *UploadDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents", e.handler
}

func (e *UploadDocumentsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Upload PDF forms for extraction
//	@Description	Upload one or more PDF files; each is queued for extraction in submission order
//	@Tags			documents
//	@Accept			mpfd
//	@Produce		json
//	@Param			files	formData	file	true	"PDF files to process"
//	@Success		202		{object}	UploadResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/documents [post]
func (e *UploadDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 64MB max memory (backend caps files at 50MB)
	const maxMemory = 64 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	for _, fh := range files {
		if !pdfinfo.IsPDF(fh.Filename) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a PDF", fh.Filename))
			return
		}
	}

	processor := svcctx.ProcessorFrom(r.Context())
	store := svcctx.RegistryFrom(r.Context())
	homeDir := svcctx.HomeFrom(r.Context())
	if processor == nil || store == nil || homeDir == nil {
		writeError(w, http.StatusServiceUnavailable, "queue not initialized")
		return
	}

	// Uploaded files outlive the request: they are read again when their
	// turn in the queue comes, so they land in the uploads directory. The
	// stored name is uuid-prefixed so a later upload of a same-named PDF
	// can never clobber the file backing an earlier document.
	var batch []queue.File
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open uploaded file: %v", err))
			return
		}

		destPath := filepath.Join(homeDir.UploadsPath(), uuid.New().String()+"_"+fh.Filename)
		dst, err := os.Create(destPath)
		if err != nil {
			src.Close()
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save file: %v", err))
			return
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save file: %v", err))
			return
		}

		info, err := pdfinfo.Inspect(destPath)
		if err != nil {
			os.Remove(destPath)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		batch = append(batch, queue.File{
			Name:  fh.Filename, // display name stays what the user uploaded
			Path:  info.Path,
			Size:  info.Size,
			Pages: info.Pages,
		})
	}

	ids := processor.Enqueue(batch)

	resp := UploadResponse{}
	for _, id := range ids {
		if doc, ok := store.Get(id); ok {
			resp.Documents = append(resp.Documents, summarize(doc))
		}
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (e *UploadDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <pdf> [pdf...]",
		Short: "Upload PDFs to the running server for extraction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp UploadResponse
			if err := client.PostFiles(cmd.Context(), "/api/documents", args, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
