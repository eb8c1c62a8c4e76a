package stream

import (
	"encoding/json"
	"strings"
)

// Kind classifies a decoded worker event.
type Kind int

const (
	// Skip marks lines that carry no protocol meaning. Workers emit
	// diagnostic noise between records; a corrupted line must never abort
	// an otherwise-successful invocation.
	Skip Kind = iota
	Text
	ResultSuccess
	ResultError
)

// Event is one decoded record from the worker's stream-json output.
type Event struct {
	Kind       Kind
	Fragments  []string // Text: zero or more fragments to append
	Text       string   // ResultSuccess: authoritative text; ResultError: message
	DurationMs int
	CostUSD    float64
	HasCost    bool
}

// wireMessage covers the recognized stream-json shapes:
//
//	{"type":"assistant","message":{"content":[{"type":"text","text":"..."}]}}
//	{"type":"result","subtype":"success","result":"...","total_cost_usd":0.1,"duration_ms":1200}
//	{"type":"result","is_error":true,"result":"..."}
type wireMessage struct {
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype"`
	IsError      bool     `json:"is_error"`
	Result       string   `json:"result"`
	TotalCostUSD *float64 `json:"total_cost_usd"`
	DurationMs   int      `json:"duration_ms"`
	Message      struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

// Decode parses one line of worker output. Decoding is stateless per line;
// malformed or unrecognized lines return a Skip event, never an error.
func Decode(line string) Event {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return Event{Kind: Skip}
	}

	var msg wireMessage
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		return Event{Kind: Skip}
	}

	switch msg.Type {
	case "assistant":
		var frags []string
		for _, block := range msg.Message.Content {
			if block.Type == "text" && block.Text != "" {
				frags = append(frags, block.Text)
			}
		}
		return Event{Kind: Text, Fragments: frags}

	case "result":
		if msg.IsError || strings.Contains(msg.Subtype, "error") {
			return Event{Kind: ResultError, Text: msg.Result}
		}
		ev := Event{Kind: ResultSuccess, Text: msg.Result, DurationMs: msg.DurationMs}
		if msg.TotalCostUSD != nil {
			ev.CostUSD = *msg.TotalCostUSD
			ev.HasCost = true
		}
		return ev
	}

	return Event{Kind: Skip}
}
