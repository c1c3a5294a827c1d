// ABOUTME: Tests for the pull-based SSE parser.
// ABOUTME: Covers event accumulation, line-ending variants, EOF dispatch, and arbitrary byte-offset chunking.

package sse

import (
	"io"
	"strings"
	"testing"
)

// chunkReader yields the input in fixed-size chunks so tests can exercise
// reads that end mid-line, mid-prefix, or mid-rune.
type chunkReader struct {
	data []byte
	pos  int
	size int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	end := c.pos + c.size
	if end > len(c.data) {
		end = len(c.data)
	}
	n := copy(p, c.data[c.pos:end])
	c.pos += n
	return n, nil
}

func collect(t *testing.T, p *Parser) []Event {
	t.Helper()
	var events []Event
	for {
		evt, err := p.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		events = append(events, evt)
	}
}

func TestSingleEvent(t *testing.T) {
	p := NewParser(strings.NewReader("data: hello\n\n"))

	evt, err := p.Next()
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if evt.Type != "message" {
		t.Errorf("Type = %q, want %q", evt.Type, "message")
	}
	if evt.Data != "hello" {
		t.Errorf("Data = %q, want %q", evt.Data, "hello")
	}

	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last event, got %v", err)
	}
}

func TestMultiLineData(t *testing.T) {
	p := NewParser(strings.NewReader("data: one\ndata: two\n\n"))
	events := collect(t, p)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != "one\ntwo" {
		t.Errorf("Data = %q, want %q", events[0].Data, "one\ntwo")
	}
}

func TestEventType(t *testing.T) {
	p := NewParser(strings.NewReader("event: update\ndata: x\n\n"))
	events := collect(t, p)
	if len(events) != 1 || events[0].Type != "update" {
		t.Fatalf("events = %+v, want one event of type update", events)
	}
}

func TestCommentsAndUnknownFieldsIgnored(t *testing.T) {
	input := ": heartbeat\nid: 7\nretry: 3000\ndata: payload\n\n"
	p := NewParser(strings.NewReader(input))
	events := collect(t, p)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Data != "payload" {
		t.Errorf("Data = %q, want %q", events[0].Data, "payload")
	}
}

func TestBlankLinesWithoutDataProduceNoEvents(t *testing.T) {
	p := NewParser(strings.NewReader("\n\n\ndata: a\n\n\n\n"))
	events := collect(t, p)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}

func TestPendingEventDispatchedAtEOF(t *testing.T) {
	// No trailing blank line: the pending event is flushed when the
	// stream ends, matching deliberate-close behavior.
	p := NewParser(strings.NewReader("data: tail"))
	events := collect(t, p)
	if len(events) != 1 || events[0].Data != "tail" {
		t.Fatalf("events = %+v, want single event %q", events, "tail")
	}
}

func TestLineEndingVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"lf", "data: a\n\ndata: b\n\n"},
		{"crlf", "data: a\r\n\r\ndata: b\r\n\r\n"},
		{"cr", "data: a\r\rdata: b\r\r"},
		{"mixed", "data: a\r\n\ndata: b\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(strings.NewReader(tt.input))
			events := collect(t, p)
			if len(events) != 2 {
				t.Fatalf("got %d events, want 2", len(events))
			}
			if events[0].Data != "a" || events[1].Data != "b" {
				t.Errorf("events = %+v, want data a then b", events)
			}
		})
	}
}

func TestArbitraryChunking(t *testing.T) {
	// Includes a multi-byte character so odd chunk sizes split it across
	// reads. Every chunk size must reassemble the identical event sequence.
	input := "data: café one\n\nevent: note\ndata: {\"content\":\"über\"}\n\ndata: [DONE]\n\n"

	for size := 1; size <= len(input); size++ {
		p := NewParser(&chunkReader{data: []byte(input), size: size})
		events := collect(t, p)
		if len(events) != 3 {
			t.Fatalf("size %d: got %d events, want 3", size, len(events))
		}
		if events[0].Data != "café one" {
			t.Errorf("size %d: first data = %q", size, events[0].Data)
		}
		if events[1].Type != "note" || events[1].Data != "{\"content\":\"über\"}" {
			t.Errorf("size %d: second event = %+v", size, events[1])
		}
		if events[2].Data != "[DONE]" {
			t.Errorf("size %d: sentinel data = %q", size, events[2].Data)
		}
	}
}

func TestCRSplitAcrossReads(t *testing.T) {
	// A CRLF pair split across two reads must count as one terminator.
	input := "data: a\r\n\r\ndata: b\r\n\r\n"
	for size := 1; size < 6; size++ {
		p := NewParser(&chunkReader{data: []byte(input), size: size})
		events := collect(t, p)
		if len(events) != 2 {
			t.Fatalf("size %d: got %d events, want 2", size, len(events))
		}
	}
}

func TestDataPrefixWithoutSpace(t *testing.T) {
	p := NewParser(strings.NewReader("data:tight\n\n"))
	events := collect(t, p)
	if len(events) != 1 || events[0].Data != "tight" {
		t.Fatalf("events = %+v, want data %q", events, "tight")
	}
}

func TestNextAfterEOFStaysEOF(t *testing.T) {
	p := NewParser(strings.NewReader(""))
	for i := 0; i < 3; i++ {
		if _, err := p.Next(); err != io.EOF {
			t.Fatalf("call %d: expected io.EOF, got %v", i, err)
		}
	}
}
