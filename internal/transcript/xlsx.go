package transcript

import (
	"bytes"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

const sheetName = "Transcript"

// newWorkbook creates a workbook with the snapshot header row.
func newWorkbook() (*xlsx.File, *xlsx.Sheet, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, nil, eris.Wrap(err, "transcript: add sheet")
	}
	header := sheet.AddRow()
	for _, col := range model.SnapshotColumns {
		header.AddCell().Value = col
	}
	return f, sheet, nil
}

// appendRows adds one row per entry to the sheet.
func appendRows(sheet *xlsx.Sheet, entries []model.TranscriptEntry) {
	for _, e := range entries {
		row := sheet.AddRow()
		for _, v := range e.Row() {
			row.AddCell().Value = v
		}
	}
}

// workbookBytes serializes a full workbook built from entries.
func workbookBytes(entries []model.TranscriptEntry) ([]byte, error) {
	f, sheet, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	appendRows(sheet, entries)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "transcript: write workbook")
	}
	return buf.Bytes(), nil
}
