// Package importer implements the game import pipeline: CSV parsing,
// format detection, entity resolution and the per-mode orchestrator.
package importer

import "strings"

// Row is one parsed CSV data row keyed by lower-cased header name.
type Row map[string]string

// ParseCSV parses raw CSV text into headers and rows. Headers are
// lower-cased and trimmed so lookups are stable across export tools.
// Quoted fields may contain commas, newlines and doubled-quote escapes.
// All of \n, \r\n and bare \r terminate a record. Rows whose every
// field trims to empty are skipped. An unterminated quote is closed
// implicitly at end of input. Input with fewer than two physical rows
// (header-only or empty) yields no headers and no rows.
func ParseCSV(text string) ([]string, []Row) {
	records := parseRecords(text)
	if len(records) < 2 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRecords splits text into records of fields, honouring quoting.
func parseRecords(text string) [][]string {
	var (
		records  [][]string
		fields   []string
		cur      strings.Builder
		inQuotes bool
		started  bool
	)

	endField := func() {
		fields = append(fields, cur.String())
		cur.Reset()
	}
	endRecord := func() {
		endField()
		records = append(records, fields)
		fields = nil
		started = false
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					cur.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			cur.WriteByte(ch)
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
			started = true
		case ',':
			endField()
			started = true
		case '\n':
			endRecord()
		case '\r':
			endRecord()
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		default:
			cur.WriteByte(ch)
			started = true
		}
	}

	// Implicit close for a trailing quoted field; flush the final
	// record when the input does not end with a line terminator.
	if started || cur.Len() > 0 || len(fields) > 0 {
		endRecord()
	}
	return records
}
