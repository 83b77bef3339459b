package service

import (
	"github.com/pharmahadir/hadir/internal/hadir/domain"
	"github.com/pharmahadir/hadir/internal/hadir/tabular"
)

// ExportService projects guests onto the tabular schema. The mapping is
// pure and is the exact inverse of the importer's column interpretation,
// so exporting and re-importing the same file updates every guest in
// place without creating duplicates.
type ExportService struct{}

// Project maps the given guests (already filtered by the caller) to rows
// in the fixed column order. Absent optional fields render as "".
func (ExportService) Project(guests []domain.Guest) []tabular.Row {
	rows := make([]tabular.Row, 0, len(guests))
	for _, g := range guests {
		invitationSent := "No"
		if g.InvitationSent {
			invitationSent = "Yes"
		}

		var repName, repDesignation string
		if g.Representative != nil {
			repName = g.Representative.Name
			repDesignation = g.Representative.Designation
		}

		status := g.RSVPStatus
		if !status.IsValid() {
			status = domain.RSVPPending
		}

		rows = append(rows, tabular.Row{
			tabular.ColID:             g.ID,
			tabular.ColName:           g.Name,
			tabular.ColOrganization:   g.Organization,
			tabular.ColEmail:          g.Email,
			tabular.ColPhone:          g.Phone,
			tabular.ColInvitationSent: invitationSent,
			tabular.ColRSVPStatus:     string(status),
			tabular.ColRepName:        repName,
			tabular.ColRepDesignation: repDesignation,
			tabular.ColRemark:         g.Remark,
		})
	}
	return rows
}

// TemplateRows returns the distributable import template: the header's
// columns with one instructional example row. The importer recognises the
// ID placeholder and skips this row on upload.
func (ExportService) TemplateRows() []tabular.Row {
	return []tabular.Row{{
		tabular.ColID:             tabular.TemplateIDPlaceholder,
		tabular.ColName:           "Dr. Example",
		tabular.ColOrganization:   "Contoh Hospital",
		tabular.ColEmail:          "e@mail.com",
		tabular.ColPhone:          "0123456789",
		tabular.ColInvitationSent: "No",
		tabular.ColRSVPStatus:     string(domain.RSVPPending),
		tabular.ColRepName:        "",
		tabular.ColRepDesignation: "",
		tabular.ColRemark:         "Any admin notes here",
	}}
}
