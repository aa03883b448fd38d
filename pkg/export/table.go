package export

import "fmt"

// Column describes one rendered column. Weight sets its relative PDF width.
type Column struct {
	Key    string
	Title  string
	Weight float64
}

// Table is tabular export content keyed by Column.Key.
type Table struct {
	Columns []Column
	Rows    []map[string]string
}

// Heading is printed above a PDF table.
type Heading struct {
	Title    string
	Subtitle string
}

func (t Table) validate(kind string) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("%s requires at least one column", kind)
	}
	return nil
}

func (t Table) record(row map[string]string) []string {
	record := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		record[i] = row[col.Key]
	}
	return record
}

func (t Table) titles() []string {
	titles := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		titles[i] = col.Title
		if titles[i] == "" {
			titles[i] = col.Key
		}
	}
	return titles
}
