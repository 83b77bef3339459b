package http

import (
	"errors"
	"net/http"

	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/internal/hadir/store"
	"github.com/pharmahadir/hadir/pkg/httpx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

// writeDomainError maps service and store failures onto the API's error
// vocabulary. Permission problems get an actionable description because
// they mean the deployment is misconfigured, not that the request was bad.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "No such record")
	case errors.Is(err, store.ErrPermissionDenied):
		httpx.WriteError(w, http.StatusForbidden, "permission_denied",
			"The database rejected the access. Check file permissions and ownership of the database file.")
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, service.ErrDeadlinePassed):
		httpx.WriteError(w, http.StatusConflict, "deadline_passed",
			"The RSVP deadline has passed; responses can no longer be changed.")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Something went wrong")
	}
}
