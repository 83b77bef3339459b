// Package tabular defines the row schema shared by roster import and
// export, and the codec boundary that turns files into ordered rows and
// back. The column names are the wire contract for distributed templates
// and exports; they are matched exactly, punctuation included.
package tabular

// Column names, in the fixed export order.
const (
	ColID             = "ID"
	ColName           = "Name"
	ColOrganization   = "Designation / Organization / Affiliation"
	ColEmail          = "Email"
	ColPhone          = "Phone"
	ColInvitationSent = "Invitation Sent"
	ColRSVPStatus     = "RSVP Status"
	ColRepName        = "Representative Name"
	ColRepDesignation = "Representative Designation"
	ColRemark         = "Remark"
)

// Columns returns the full column set in export order.
func Columns() []string {
	return []string{
		ColID,
		ColName,
		ColOrganization,
		ColEmail,
		ColPhone,
		ColInvitationSent,
		ColRSVPStatus,
		ColRepName,
		ColRepDesignation,
		ColRemark,
	}
}

// TemplateIDPlaceholder is the instructional text in the ID cell of the
// distributed template's first data row. The importer recognises it and
// skips the row as a template artifact.
const TemplateIDPlaceholder = "Leave this column empty for new guests. Keep ID for updates."

// Row is one record: column name to cell value. Missing columns read as
// the empty string.
type Row map[string]string

// Get returns the cell value for the named column, or "" when absent.
func (r Row) Get(col string) string { return r[col] }

// Codec converts between a file buffer and an ordered sequence of rows.
// Concrete formats (CSV today) live behind this boundary so the roster
// engine never touches file encodings.
type Codec interface {
	// Decode parses a file buffer into rows, preserving input order.
	Decode(data []byte) ([]Row, error)

	// Encode renders rows into a file buffer using the given column order.
	Encode(columns []string, rows []Row) ([]byte, error)

	// ContentType is the MIME type of the encoded form.
	ContentType() string

	// Extension is the file extension of the encoded form, without dot.
	Extension() string
}
