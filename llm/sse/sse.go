// ABOUTME: Pull-based server-sent-event parser used by both the relay's upstream reader and the analysis client.
// ABOUTME: Tolerates chunks split at arbitrary byte offsets, including mid-line and inside multi-byte UTF-8 sequences.

package sse

import (
	"bytes"
	"io"
	"strings"
)

// Event is a single dispatched server-sent event. Multi-line data fields are
// joined with newlines. Type defaults to "message" when no event: line is seen.
type Event struct {
	Type string
	Data string
}

// Parser reads SSE events from an io.Reader as a lazy, finite, non-restartable
// sequence: call Next until it returns io.EOF. Because the parser buffers raw
// bytes and only splits on line terminators, a read that ends in the middle of
// a multi-byte character (or in the middle of the "data: " prefix) is held
// until the rest arrives rather than mis-decoded.
type Parser struct {
	r    io.Reader
	buf  []byte // unconsumed bytes carried across reads
	rerr error  // deferred reader error, surfaced once the buffer drains
	done bool

	eventType string
	dataLines []string
	hasData   bool
}

// NewParser wraps a reader in an SSE parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// Next returns the next event from the stream. It returns io.EOF when the
// underlying reader is exhausted and no event is pending; a pending event at
// end-of-stream is dispatched before EOF is reported.
func (p *Parser) Next() (Event, error) {
	if p.done {
		return Event{}, io.EOF
	}

	for {
		line, err := p.readLine()
		if err != nil {
			p.done = true
			if err == io.EOF && p.hasData {
				return p.dispatch(), nil
			}
			return Event{}, err
		}

		// Blank line dispatches the accumulated event. Consecutive blank
		// lines with nothing accumulated produce no event.
		if line == "" {
			if !p.hasData {
				continue
			}
			return p.dispatch(), nil
		}

		// Comment line.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			p.eventType = value
		case "data":
			p.dataLines = append(p.dataLines, value)
			p.hasData = true
		}
		// All other fields are ignored.
	}
}

func (p *Parser) dispatch() Event {
	evt := Event{
		Type: p.eventType,
		Data: strings.Join(p.dataLines, "\n"),
	}
	if evt.Type == "" {
		evt.Type = "message"
	}
	p.eventType = ""
	p.dataLines = nil
	p.hasData = false
	return evt
}

// readLine extracts one terminated line from the buffer, reading more bytes
// as needed. It handles LF, CRLF, and bare CR terminators.
func (p *Parser) readLine() (string, error) {
	for {
		if line, ok := p.takeLine(); ok {
			return line, nil
		}

		if p.rerr != nil {
			// Reader exhausted. Any leftover bytes form a final unterminated line.
			if len(p.buf) > 0 {
				line := string(p.buf)
				p.buf = nil
				return line, nil
			}
			return "", p.rerr
		}

		chunk := make([]byte, 4096)
		n, err := p.r.Read(chunk)
		if n > 0 {
			p.buf = append(p.buf, chunk[:n]...)
		}
		if err != nil {
			p.rerr = err
		}
	}
}

// takeLine pops a complete line off the buffer if one is present. A trailing
// CR with no following byte yet is not a complete line: it could be the first
// half of a CRLF pair split across reads.
func (p *Parser) takeLine() (string, bool) {
	i := bytes.IndexAny(p.buf, "\r\n")
	if i < 0 {
		return "", false
	}

	line := string(p.buf[:i])
	if p.buf[i] == '\n' {
		p.buf = p.buf[i+1:]
		return line, true
	}

	// CR terminator: consume a following LF if it has arrived.
	if i+1 < len(p.buf) {
		if p.buf[i+1] == '\n' {
			p.buf = p.buf[i+2:]
		} else {
			p.buf = p.buf[i+1:]
		}
		return line, true
	}

	// CR is the last buffered byte. If the reader is done there is no LF
	// coming; otherwise wait for the next chunk to decide.
	if p.rerr != nil {
		p.buf = p.buf[:0]
		return line, true
	}
	return "", false
}
