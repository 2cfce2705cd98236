package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Headers: []string{"provider", "field", "value"},
		Rows: [][]string{
			{"retell", "agent_id", "agent_1"},
			{"targetai", "tos_base_url", "https://app.targetai.ai"},
		},
		Data: map[string]any{"retell": map[string]any{"agent_id": "agent_1"}},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"junit", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		data   any
		want   string
	}{
		{
			name:   "text table",
			format: FormatText,
			data:   sampleTable(),
			want: "PROVIDER  FIELD         VALUE\n" +
				"retell    agent_id      agent_1\n" +
				"targetai  tos_base_url  https://app.targetai.ai\n",
		},
		{
			name:   "text value",
			format: FormatText,
			data:   "configuration is valid",
			want:   "configuration is valid\n",
		},
		{
			name:   "csv table",
			format: FormatCSV,
			data:   sampleTable(),
			want: "provider,field,value\n" +
				"retell,agent_id,agent_1\n" +
				"targetai,tos_base_url,https://app.targetai.ai\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFormatter(tt.format).FormatTo(&buf, tt.data); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("output =\n%s\nwant\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter_UsesTableData(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).FormatTo(&buf, sampleTable()); err != nil {
		t.Fatal(err)
	}

	var got map[string]map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["retell"]["agent_id"] != "agent_1" {
		t.Errorf("decoded = %v", got)
	}
}

func TestCSVFormatter_RejectsNonTable(t *testing.T) {
	var buf bytes.Buffer
	if err := (&CSVFormatter{}).FormatTo(&buf, "plain"); err == nil {
		t.Error("expected an error for non-table data")
	}
}
