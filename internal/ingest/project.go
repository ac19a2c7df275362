package ingest

import "strings"

// Project reshapes parsed rows into raw prospect records using the header
// mapping. rows[0] is the header row; each remaining row becomes one record
// carrying the 1-based physical line it started on. Missing or short rows
// yield empty strings for the absent columns, never an index error.
func Project(rows []RawRow, mapping HeaderMapping) []ProspectRecord {
	if len(rows) < 2 {
		return nil
	}
	records := make([]ProspectRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, projectRow(row, mapping))
	}
	return records
}

func projectRow(row RawRow, mapping HeaderMapping) ProspectRecord {
	rec := ProspectRecord{Line: row.Line}
	for _, field := range fieldPriority {
		idx, ok := mapping[field]
		if !ok || idx >= len(row.Fields) {
			continue
		}
		rec.set(field, cleanCell(row.Fields[idx]))
	}
	return rec
}

// cleanCell strips artifacts spreadsheet tools leave in exported cells: the
// Excel formula wrapper (="value") and non-breaking spaces. Values are
// otherwise passed through untouched; trimming and casing belong to the
// normalizer.
func cleanCell(s string) string {
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	if strings.ContainsRune(s, ' ') {
		s = strings.ReplaceAll(s, " ", " ")
	}
	return s
}
