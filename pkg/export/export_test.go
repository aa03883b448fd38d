package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterTable(rows int) Table {
	table := Table{Columns: []Column{
		{Key: "no", Title: "No", Weight: 0.5},
		{Key: "name", Title: "Name", Weight: 2},
		{Key: "email"},
	}}
	for i := 1; i <= rows; i++ {
		table.Rows = append(table.Rows, map[string]string{
			"no":    fmt.Sprintf("%d", i),
			"name":  fmt.Sprintf("Student %d", i),
			"email": fmt.Sprintf("s%d@example.edu", i),
		})
	}
	return table
}

func TestCSVExporterWritesTitlesAndRows(t *testing.T) {
	out, err := NewCSVExporter().Render(rosterTable(2))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"No", "Name", "email"}, records[0])
	assert.Equal(t, []string{"2", "Student 2", "s2@example.edu"}, records[2])
}

func TestCSVExporterQuotesSeparators(t *testing.T) {
	table := Table{
		Columns: []Column{{Key: "name", Title: "Name"}},
		Rows:    []map[string]string{{"name": "Doe, Jane"}},
	}
	out, err := NewCSVExporter().Render(table)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Doe, Jane"`)
}

func TestExportersRequireColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Table{}, Heading{})
	assert.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(rosterTable(80), Heading{Title: "Participants", Subtitle: "Career Fair"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := NewPDFExporter().Render(rosterTable(0), Heading{Title: "Participants"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(rosterTable(0).Columns)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pageWidth, total, 0.001)
	assert.Greater(t, widths[1], widths[0])
}
