package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/internal/hadir/tabular"
	"github.com/pharmahadir/hadir/pkg/httpx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

// maxImportSize caps uploaded roster files at 8 MiB, far above any
// realistic guest list.
const maxImportSize = 8 << 20

// TransferHandler serves bulk roster movement: file import, filtered
// export, and the distributable import template.
type TransferHandler struct {
	Roster *service.RosterService
	Import *service.ImportService
	Export service.ExportService
	Codec  tabular.Codec
}

// HandleImport accepts a multipart upload under the "file" field, decodes
// it, and reconciles the rows into the roster as one atomic batch.
func (h *TransferHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			`multipart upload with a "file" field is required`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "failed to read uploaded file")
		return
	}

	rows, err := h.Codec.Decode(data)
	if err != nil {
		slogx.FromContext(r.Context()).Warn("import file rejected", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_file",
			"The uploaded file could not be parsed. Download the template and try again.")
		return
	}

	result, err := h.Import.Reconcile(r.Context(), rows)
	switch {
	case errors.Is(err, service.ErrNothingToImport):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "nothing_to_import",
			"No valid guest rows were found in the file.")
		return
	case errors.Is(err, service.ErrImportFailed):
		writeDomainError(w, r, err)
		return
	case err != nil:
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}

// HandleExport streams the roster as a file attachment. The same ?status=
// and ?q= filters as the listing endpoint apply, so an admin exports
// exactly what they see.
func (h *TransferHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	filter := service.RosterFilter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}

	guests, err := h.Roster.ListGuests(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	name := fmt.Sprintf("guest-roster-%s.%s", time.Now().Format("2006-01-02"), h.Codec.Extension())
	h.writeFile(w, r, name, h.Export.Project(guests))
}

// HandleTemplate serves the blank import template with its instructional
// example row.
func (h *TransferHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	name := "guest-import-template." + h.Codec.Extension()
	h.writeFile(w, r, name, h.Export.TemplateRows())
}

func (h *TransferHandler) writeFile(w http.ResponseWriter, r *http.Request, filename string, rows []tabular.Row) {
	data, err := h.Codec.Encode(tabular.Columns(), rows)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", h.Codec.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
