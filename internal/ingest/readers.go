package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readXLSX reads the first sheet of an XLSX catalog export and returns the
// header row followed by the data rows.
func readXLSX(path string) (header []string, rows [][]string, err error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.New("ingest: xlsx file has no sheets")
	}

	for i, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return nil, nil, eris.New("ingest: xlsx sheet is empty")
	}
	return header, rows, nil
}

// readCSVFile reads a CSV catalog export and returns the header row followed
// by the data rows. Variable field counts are tolerated; short rows map to
// empty cells during row mapping.
func readCSVFile(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "ingest: read csv row")
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	if header == nil {
		return nil, nil, eris.New("ingest: csv file is empty")
	}
	return header, rows, nil
}
