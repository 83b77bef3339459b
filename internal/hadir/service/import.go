package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/tabular"
	"github.com/pharmahadir/hadir/pkg/idx"
	"github.com/pharmahadir/hadir/pkg/slogx"
)

var (
	// ErrNothingToImport reports a file that produced no valid rows. It is
	// a warning, not a failure: nothing was written because there was
	// nothing to write.
	ErrNothingToImport = errors.New("no valid guest rows to import")

	// ErrImportFailed reports a batch commit failure. None of the batch's
	// writes took effect.
	ErrImportFailed = errors.New("import batch failed")
)

// ImportService reconciles externally supplied rows into the roster:
// rows carrying an ID merge into (or recreate) that guest, rows without
// one become new guests. The whole file commits as a single atomic batch.
type ImportService struct {
	Roster *RosterService
}

// ImportResult reports what a completed import did.
type ImportResult struct {
	// BatchID correlates this import across log lines.
	BatchID string `json:"batch_id"`
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
}

type importWrite struct {
	guest domain.Guest
	merge bool
}

// Reconcile processes rows in input order and commits the resulting
// writes in one transaction. Rows are dropped silently when they are the
// template's instructional row or have no name; unknown status values
// coerce to Pending rather than aborting the file.
func (s *ImportService) Reconcile(ctx context.Context, rows []tabular.Row) (ImportResult, error) {
	batchID := uuid.NewString()
	log := slogx.FromContext(ctx).With("batch_id", batchID)

	result := ImportResult{BatchID: batchID}
	writes := make([]importWrite, 0, len(rows))
	now := time.Now().UTC()

	for _, row := range rows {
		id := strings.TrimSpace(row.Get(tabular.ColID))

		// The distributed template ships with an instructional first data
		// row; it is an artifact, not a guest.
		if id == tabular.TemplateIDPlaceholder {
			continue
		}

		name := strings.TrimSpace(row.Get(tabular.ColName))
		if name == "" {
			continue // invalid row, silently dropped
		}

		g := domain.Guest{
			Name:           name,
			Organization:   strings.TrimSpace(row.Get(tabular.ColOrganization)),
			Email:          strings.TrimSpace(row.Get(tabular.ColEmail)),
			Phone:          strings.TrimSpace(row.Get(tabular.ColPhone)),
			Remark:         strings.TrimSpace(row.Get(tabular.ColRemark)),
			RSVPStatus:     domain.ParseRSVPStatus(strings.TrimSpace(row.Get(tabular.ColRSVPStatus))),
			InvitationSent: strings.EqualFold(strings.TrimSpace(row.Get(tabular.ColInvitationSent)), "yes"),
			Representative: parseRepresentative(row),
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		// A representative only makes sense alongside the matching status;
		// anything else would break the roster invariant on merge.
		if g.RSVPStatus != domain.RSVPAttendingViaRepresentative {
			g.Representative = nil
		} else if g.Representative == nil {
			g.RSVPStatus = domain.RSVPPending
		}

		if id != "" {
			// Update-or-recreate: merge into the guest at this id, creating
			// it if the admin's file refers to a since-deleted guest.
			g.ID = id
			writes = append(writes, importWrite{guest: g, merge: true})
			result.Updated++
		} else {
			g.ID = idx.New().String()
			writes = append(writes, importWrite{guest: g, merge: false})
			result.Added++
		}
	}

	if result.Added == 0 && result.Updated == 0 {
		log.Warn("import produced no valid rows", "rows_seen", len(rows))
		return ImportResult{BatchID: batchID}, ErrNothingToImport
	}

	if err := s.Roster.applyImportBatch(ctx, writes); err != nil {
		log.Error("import batch commit failed",
			"added", result.Added, "updated", result.Updated, "err", err)
		return ImportResult{BatchID: batchID}, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	log.Info("import batch committed", "added", result.Added, "updated", result.Updated)
	return result, nil
}

func parseRepresentative(row tabular.Row) *domain.Representative {
	name := strings.TrimSpace(row.Get(tabular.ColRepName))
	if name == "" {
		// Never store a partial representative record.
		return nil
	}
	return &domain.Representative{
		Name:        name,
		Designation: strings.TrimSpace(row.Get(tabular.ColRepDesignation)),
	}
}
