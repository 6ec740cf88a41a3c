package importer

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSVBasic(t *testing.T) {
	headers, rows := ParseCSV("Title,Min_Players,Max_Players\nWingspan,1,5\nAzul,2,4\n")
	if !reflect.DeepEqual(headers, []string{"title", "min_players", "max_players"}) {
		t.Fatalf("headers = %v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0]["title"] != "Wingspan" || rows[0]["min_players"] != "1" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["max_players"] != "4" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestParseCSVQuotedFields(t *testing.T) {
	input := `title,description` + "\n" +
		`"Ticket to Ride, Europe","A ""classic"" route game` + "\n" +
		`spanning two lines"` + "\n"
	_, rows := ParseCSV(input)
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if got := rows[0]["title"]; got != "Ticket to Ride, Europe" {
		t.Errorf("title = %q", got)
	}
	want := "A \"classic\" route game\nspanning two lines"
	if got := rows[0]["description"]; got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestParseCSVLineEndings(t *testing.T) {
	for name, input := range map[string]string{
		"crlf":    "title\r\nWingspan\r\nAzul\r\n",
		"lf":      "title\nWingspan\nAzul\n",
		"bare cr": "title\rWingspan\rAzul\r",
	} {
		_, rows := ParseCSV(input)
		if len(rows) != 2 {
			t.Errorf("%s: rows = %d, want 2", name, len(rows))
			continue
		}
		if rows[0]["title"] != "Wingspan" || rows[1]["title"] != "Azul" {
			t.Errorf("%s: rows = %v", name, rows)
		}
	}
}

func TestParseCSVSkipsBlankRows(t *testing.T) {
	_, rows := ParseCSV("title,publisher\nWingspan,Stonemaier\n,\n\nAzul,Plan B\n")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want blank rows skipped", len(rows))
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	headers, rows := ParseCSV("title,publisher\n")
	if headers != nil || rows != nil {
		t.Errorf("header-only input should yield empty result, got %v / %v", headers, rows)
	}
}

func TestParseCSVEmpty(t *testing.T) {
	headers, rows := ParseCSV("")
	if headers != nil || rows != nil {
		t.Errorf("empty input should yield empty result")
	}
}

func TestParseCSVUnterminatedQuote(t *testing.T) {
	_, rows := ParseCSV("title,notes\nWingspan,\"never closed")
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if got := rows[0]["notes"]; got != "never closed" {
		t.Errorf("notes = %q", got)
	}
}

func TestParseCSVShortRow(t *testing.T) {
	_, rows := ParseCSV("title,publisher,notes\nWingspan,Stonemaier\n")
	if len(rows) != 1 {
		t.Fatalf("rows = %d", len(rows))
	}
	if got := rows[0]["notes"]; got != "" {
		t.Errorf("missing trailing field should be empty, got %q", got)
	}
}

// serializeCSV re-emits headers and rows with full quoting, for the
// round-trip property below.
func serializeCSV(headers []string, rows []Row) string {
	quote := func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	var b strings.Builder
	for i, h := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(h))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		for i, h := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(row[h]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestParseCSVRoundTrip(t *testing.T) {
	headers := []string{"title", "notes"}
	rows := []Row{
		{"title": "Ticket to Ride, Europe", "notes": "has, commas"},
		{"title": "Wingspan", "notes": "line one\nline two"},
		{"title": "Azul", "notes": `a "quoted" word`},
	}
	gotHeaders, gotRows := ParseCSV(serializeCSV(headers, rows))
	if !reflect.DeepEqual(gotHeaders, headers) {
		t.Fatalf("headers = %v", gotHeaders)
	}
	if !reflect.DeepEqual(gotRows, rows) {
		t.Fatalf("rows = %v, want %v", gotRows, rows)
	}
}
