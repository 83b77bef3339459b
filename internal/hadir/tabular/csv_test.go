package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVCodecDecode(t *testing.T) {
	t.Parallel()

	codec := NewCSVCodec()

	t.Run("maps cells by header name", func(t *testing.T) {
		data := []byte("Name,Email\nDr. Ali,ali@moh.gov.my\nDr. Siti,\n")

		rows, err := codec.Decode(data)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "Dr. Ali", rows[0].Get(ColName))
		require.Equal(t, "ali@moh.gov.my", rows[0].Get(ColEmail))
		require.Equal(t, "Dr. Siti", rows[1].Get(ColName))
		require.Empty(t, rows[1].Get(ColEmail))
	})

	t.Run("strips a leading BOM from the header", func(t *testing.T) {
		data := []byte("\uFEFFName,Email\nDr. Ali,ali@moh.gov.my\n")

		rows, err := codec.Decode(data)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, "Dr. Ali", rows[0].Get(ColName))
	})

	t.Run("tolerates ragged rows", func(t *testing.T) {
		data := []byte("Name,Email,Phone\nDr. Ali\nDr. Siti,siti@x.my,0123,extra\n")

		rows, err := codec.Decode(data)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "Dr. Ali", rows[0].Get(ColName))
		require.Empty(t, rows[0].Get(ColEmail))
		require.Equal(t, "0123", rows[1].Get(ColPhone))
	})

	t.Run("empty file yields no rows", func(t *testing.T) {
		rows, err := codec.Decode(nil)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("missing columns read as empty", func(t *testing.T) {
		rows, err := codec.Decode([]byte("Name\nDr. Ali\n"))
		require.NoError(t, err)
		require.Empty(t, rows[0].Get(ColRSVPStatus))
	})
}

func TestCSVCodecEncode(t *testing.T) {
	t.Parallel()

	codec := NewCSVCodec()

	rows := []Row{
		{ColID: "g1", ColName: "Dr. Ali", ColRSVPStatus: "Attending"},
		{ColID: "g2", ColName: "Puan, Siti"}, // comma forces quoting
	}

	data, err := codec.Encode(Columns(), rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Join(Columns(), ","), lines[0])
	require.Contains(t, lines[1], "Dr. Ali")
	require.Contains(t, lines[2], `"Puan, Siti"`)
}

func TestCSVCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCSVCodec()

	original := []Row{{
		ColID:             "01ABC",
		ColName:           "Dr. Ali",
		ColOrganization:   "Hospital Raja Perempuan Zainab II",
		ColEmail:          "ali@moh.gov.my",
		ColPhone:          "0123456789",
		ColInvitationSent: "Yes",
		ColRSVPStatus:     "Attending (Wakil)",
		ColRepName:        "Ahmad",
		ColRepDesignation: "Pegawai Farmasi",
		ColRemark:         "VIP, front row",
	}}

	data, err := codec.Encode(Columns(), original)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	for _, col := range Columns() {
		require.Equal(t, original[0].Get(col), decoded[0].Get(col), col)
	}
}
