package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pharmahadir/hadir/internal/hadir/service"
	"github.com/pharmahadir/hadir/internal/hadir/store/drivers/sqlite"
	"github.com/pharmahadir/hadir/internal/hadir/tabular"
	"github.com/pharmahadir/hadir/pkg/jwtx"
	"github.com/pharmahadir/hadir/pkg/slogx"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the full API against an in-memory store. A nil
// signer leaves the admin endpoints open, which keeps most tests focused
// on their own behavior; auth is covered separately.
func newTestRouter(t *testing.T, signer *jwtx.Signer) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slogx.New(slogx.Config{Service: "hadir-test", Level: "error", Format: "text"})

	r := NewRouter(signer, "test", "https://hadir.example", time.UTC, st, tabular.CSVCodec{}, logger)
	roster := service.NewRosterService(st)
	r.RosterService = roster
	r.RSVPService = &service.RSVPService{Roster: roster, Location: time.UTC}
	r.ImportService = &service.ImportService{Roster: roster}
	r.ExportService = service.ExportService{}
	r.SessionService = &service.SessionService{AdminKey: "letmein", Signer: signer}
	r.ApplyRoutes()
	return r
}

func doJSON(t *testing.T, router *Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func createTestGuest(t *testing.T, router *Router, name string) guestView {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/v1/guests", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code)

	var g guestView
	decodeBody(t, rec, &g)
	return g
}

func TestGuestEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("create returns the guest with an invitation link", func(t *testing.T) {
		g := createTestGuest(t, router, "Dr. Ali")
		require.NotEmpty(t, g.ID)
		require.Equal(t, "Dr. Ali", g.Name)
		require.Equal(t, "Pending", g.RSVPStatus)
		require.Equal(t, "https://hadir.example/rsvp?guestId="+g.ID, g.RSVPURL)
	})

	t.Run("create rejects a nameless guest", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/guests", map[string]string{"name": " "})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "validation_failed")
	})

	t.Run("create rejects malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/guests", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list filters by status and query", func(t *testing.T) {
		siti := createTestGuest(t, router, "Dr. Siti")

		rec := doJSON(t, router, http.MethodPatch, "/v1/guests/"+siti.ID, map[string]any{
			"rsvp_status": "Attending",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/v1/guests?status=Attending", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var listing struct {
			Guests []guestView `json:"guests"`
			Count  int         `json:"count"`
		}
		decodeBody(t, rec, &listing)
		require.Equal(t, 1, listing.Count)
		require.Equal(t, "Dr. Siti", listing.Guests[0].Name)

		rec = doJSON(t, router, http.MethodGet, "/v1/guests?q=ali", nil)
		decodeBody(t, rec, &listing)
		require.Equal(t, 1, listing.Count)
		require.Equal(t, "Dr. Ali", listing.Guests[0].Name)
	})

	t.Run("patch updates profile and status together", func(t *testing.T) {
		g := createTestGuest(t, router, "Dr. Wong")

		rec := doJSON(t, router, http.MethodPatch, "/v1/guests/"+g.ID, map[string]any{
			"email":       "wong@moh.gov.my",
			"rsvp_status": "Attending (Wakil)",
			"representative": map[string]string{
				"name":        "Ahmad",
				"designation": "Pegawai Farmasi",
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated guestView
		decodeBody(t, rec, &updated)
		require.Equal(t, "wong@moh.gov.my", updated.Email)
		require.Equal(t, "Attending (Wakil)", updated.RSVPStatus)
		require.NotNil(t, updated.Representative)
		require.Equal(t, "Ahmad", updated.Representative.Name)
	})

	t.Run("rejected status leaves the profile untouched", func(t *testing.T) {
		g := createTestGuest(t, router, "Dr. Lim")

		rec := doJSON(t, router, http.MethodPatch, "/v1/guests/"+g.ID, map[string]any{
			"email":       "lim@moh.gov.my",
			"rsvp_status": "Maybe",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "validation_failed")

		rec = doJSON(t, router, http.MethodGet, "/v1/guests/"+g.ID, nil)
		var got guestView
		decodeBody(t, rec, &got)
		require.Empty(t, got.Email)
		require.Equal(t, "Pending", got.RSVPStatus)
	})

	t.Run("get unknown guest is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/guests/nope", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete then get", func(t *testing.T) {
		g := createTestGuest(t, router, "Dr. Tan")

		rec := doJSON(t, router, http.MethodDelete, "/v1/guests/"+g.ID, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/v1/guests/"+g.ID, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	createTestGuest(t, router, "Dr. Ali")
	g := createTestGuest(t, router, "Dr. Siti")
	rec := doJSON(t, router, http.MethodPatch, "/v1/guests/"+g.ID, map[string]any{
		"rsvp_status": "Attending",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/v1/roster/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.RosterStats
	decodeBody(t, rec, &stats)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 1, stats.Attending)
	require.Equal(t, 1, stats.Pending)
}

func TestEventEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("first read bootstraps the default", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/event", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var cfg eventConfigView
		decodeBody(t, rec, &cfg)
		require.NotEmpty(t, cfg.EventName)
		require.Empty(t, cfg.Deadline)
	})

	t.Run("put replaces the config", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/v1/event", map[string]string{
			"event_name": "Majlis Tahunan",
			"theme":      "Pharmacists Stepping Up",
			"location":   "Machang",
			"date":       "2025-09-22",
			"deadline":   "2025-09-15",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/v1/event", nil)
		var cfg eventConfigView
		decodeBody(t, rec, &cfg)
		require.Equal(t, "Majlis Tahunan", cfg.EventName)
		require.Equal(t, "2025-09-15", cfg.Deadline)
	})

	t.Run("put rejects a malformed deadline", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/v1/event", map[string]string{
			"event_name": "Majlis Tahunan",
			"date":       "2025-09-22",
			"deadline":   "15 September",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "validation_failed")

		// The stored config kept the last good deadline.
		rec = doJSON(t, router, http.MethodGet, "/v1/event", nil)
		var cfg eventConfigView
		decodeBody(t, rec, &cfg)
		require.Equal(t, "2025-09-15", cfg.Deadline)
	})
}

func TestInvitationEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)
	g := createTestGuest(t, router, "Dr. Ali")

	t.Run("fetch shows guest, event, and deadline state", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/invitations/"+g.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var view struct {
			Guest          guestView       `json:"guest"`
			Event          eventConfigView `json:"event"`
			DeadlinePassed bool            `json:"deadline_passed"`
		}
		decodeBody(t, rec, &view)
		require.Equal(t, g.ID, view.Guest.ID)
		require.NotEmpty(t, view.Event.EventName)
		require.False(t, view.DeadlinePassed)

		// Guests never see their own admin link.
		require.Empty(t, view.Guest.RSVPURL)
	})

	t.Run("unknown invitation is terminal", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/invitations/unknown", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "invitation_not_found")
	})

	t.Run("direct response", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invitations/"+g.ID+"/rsvp", map[string]any{
			"action": "direct",
			"status": "Attending",
			"remark": "see you there",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated guestView
		decodeBody(t, rec, &updated)
		require.Equal(t, "Attending", updated.RSVPStatus)
		require.Equal(t, "see you there", updated.Remark)
		require.NotNil(t, updated.RespondedAt)
	})

	t.Run("representative response", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invitations/"+g.ID+"/rsvp", map[string]any{
			"action": "representative",
			"representative": map[string]string{
				"name":        "Ahmad",
				"designation": "Pegawai Farmasi",
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated guestView
		decodeBody(t, rec, &updated)
		require.Equal(t, "Attending (Wakil)", updated.RSVPStatus)
		require.NotNil(t, updated.Representative)
	})

	t.Run("reset response", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invitations/"+g.ID+"/rsvp", map[string]any{
			"action": "reset",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated guestView
		decodeBody(t, rec, &updated)
		require.Equal(t, "Pending", updated.RSVPStatus)
		require.Nil(t, updated.Representative)
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/invitations/"+g.ID+"/rsvp", map[string]any{
			"action": "maybe",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("past deadline responses conflict", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/v1/event", map[string]string{
			"event_name": "Majlis", "date": "2000-01-01", "deadline": "2000-01-01",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodPost, "/v1/invitations/"+g.ID+"/rsvp", map[string]any{
			"action": "direct",
			"status": "Attending",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "deadline_passed")
	})
}

func importFile(t *testing.T, router *Router, csv string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/roster/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTransferEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("template download carries the placeholder row", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/roster/template", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		require.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		require.Contains(t, rec.Body.String(), tabular.TemplateIDPlaceholder)
	})

	t.Run("import creates and updates guests", func(t *testing.T) {
		existing := createTestGuest(t, router, "Dr. Ali")

		csv := fmt.Sprintf("ID,Name,Email\n%s,Dr. Ali,ali@moh.gov.my\n,Dr. Siti,\n", existing.ID)
		rec := importFile(t, router, csv)
		require.Equal(t, http.StatusOK, rec.Code)

		var result service.ImportResult
		decodeBody(t, rec, &result)
		require.Equal(t, 1, result.Added)
		require.Equal(t, 1, result.Updated)
		require.NotEmpty(t, result.BatchID)
	})

	t.Run("import with no usable rows", func(t *testing.T) {
		rec := importFile(t, router, "ID,Name\n,\n")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "nothing_to_import")
	})

	t.Run("import without a file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/roster/import", strings.NewReader("raw"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export respects filters", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/roster/export?q=siti", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Header().Get("Content-Disposition"), "guest-roster-")

		body := rec.Body.String()
		require.Contains(t, body, "Dr. Siti")
		require.NotContains(t, body, "Dr. Ali")
	})
}

func TestWatchEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)
	createTestGuest(t, router, "Dr. Ali")

	t.Run("roster stream sends the initial snapshot", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		req := httptest.NewRequest(http.MethodGet, "/v1/roster/watch", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			defer close(done)
			router.ServeHTTP(rec, req)
		}()

		require.Eventually(t, func() bool {
			return strings.Contains(rec.Body.String(), "event: roster")
		}, time.Second, 10*time.Millisecond)

		cancel()
		<-done

		require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), "Dr. Ali")
	})

	t.Run("event stream sends the config", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		req := httptest.NewRequest(http.MethodGet, "/v1/event/watch", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			defer close(done)
			router.ServeHTTP(rec, req)
		}()

		require.Eventually(t, func() bool {
			return strings.Contains(rec.Body.String(), "event: event")
		}, time.Second, 10*time.Millisecond)

		cancel()
		<-done
	})
}

func TestSessionEndpoint(t *testing.T) {
	signer := jwtx.NewSigner([]byte("secret"), "hadir", time.Hour)
	router := newTestRouter(t, signer)

	t.Run("right key mints a working token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/session", map[string]string{
			"admin_key": "letmein",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var session service.Session
		decodeBody(t, rec, &session)
		require.NotEmpty(t, session.Token)

		req := httptest.NewRequest(http.MethodGet, "/v1/guests", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		authed := httptest.NewRecorder()
		router.ServeHTTP(authed, req)
		require.Equal(t, http.StatusOK, authed.Code)
	})

	t.Run("wrong key is unauthorized", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/v1/admin/session", map[string]string{
			"admin_key": "guess",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin endpoints demand a token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/guests", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("public invitation endpoints stay open", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/v1/invitations/unknown", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok"`)

	rec = doJSON(t, router, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
