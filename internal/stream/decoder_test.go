package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Event
	}{
		{
			name: "assistant text",
			line: `{"type":"assistant","message":{"content":[{"type":"text","text":"hello"}]}}`,
			want: Event{Kind: Text, Fragments: []string{"hello"}},
		},
		{
			name: "assistant multiple fragments",
			line: `{"type":"assistant","message":{"content":[{"type":"text","text":"a"},{"type":"tool_use"},{"type":"text","text":"b"}]}}`,
			want: Event{Kind: Text, Fragments: []string{"a", "b"}},
		},
		{
			name: "assistant without text blocks",
			line: `{"type":"assistant","message":{"content":[{"type":"tool_use"}]}}`,
			want: Event{Kind: Text},
		},
		{
			name: "result success with cost and duration",
			line: `{"type":"result","subtype":"success","result":"done","total_cost_usd":0.0123,"duration_ms":4200}`,
			want: Event{Kind: ResultSuccess, Text: "done", CostUSD: 0.0123, HasCost: true, DurationMs: 4200},
		},
		{
			name: "result success without cost",
			line: `{"type":"result","subtype":"success","result":"done"}`,
			want: Event{Kind: ResultSuccess, Text: "done"},
		},
		{
			name: "result error flag",
			line: `{"type":"result","is_error":true,"result":"boom"}`,
			want: Event{Kind: ResultError, Text: "boom"},
		},
		{
			name: "result error subtype",
			line: `{"type":"result","subtype":"error_during_execution","result":"bad"}`,
			want: Event{Kind: ResultError, Text: "bad"},
		},
		{
			name: "unrecognized type",
			line: `{"type":"system","subtype":"init"}`,
			want: Event{Kind: Skip},
		},
		{
			name: "plain text diagnostic",
			line: "npm warn something",
			want: Event{Kind: Skip},
		},
		{
			name: "malformed json",
			line: `{"type":"assistant","message":`,
			want: Event{Kind: Skip},
		},
		{
			name: "empty line",
			line: "",
			want: Event{Kind: Skip},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decode(tc.line))
		})
	}
}
