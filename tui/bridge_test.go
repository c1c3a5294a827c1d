// ABOUTME: Tests for the stream-to-message-loop bridge: fragment ordering and
// ABOUTME: terminal result delivery.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SulemanSupreme/fingertips/client"
	"github.com/SulemanSupreme/fingertips/fingertips"
)

func TestWaitForFragmentCmdDeliversInOrder(t *testing.T) {
	body := "data: {\"content\":\"a\"}\n\n" +
		"data: {\"content\":\"b\"}\n\n" +
		"data: [DONE]\n\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	stream := client.NewAnalysisStream(srv.URL)
	handle := StartAnalysis(context.Background(), stream, fingertips.AnalysisRequest{
		IndicatorID: 94146, Query: "q",
	})

	var texts []string
	for {
		msg := WaitForFragmentCmd(handle)()
		switch msg := msg.(type) {
		case FragmentMsg:
			texts = append(texts, msg.Update.Text)
		case StreamDoneMsg:
			if msg.Err != nil {
				t.Fatalf("StreamDoneMsg.Err = %v", msg.Err)
			}
			if msg.Text != "ab" {
				t.Errorf("final text = %q, want ab", msg.Text)
			}
			if len(texts) != 2 || texts[0] != "a" || texts[1] != "ab" {
				t.Errorf("fragment texts = %v", texts)
			}
			return
		default:
			t.Fatalf("unexpected message %T", msg)
		}
	}
}

func TestWaitForFragmentCmdReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"error\":\"upstream reset\"}\n\n"))
	}))
	defer srv.Close()

	stream := client.NewAnalysisStream(srv.URL)
	handle := StartAnalysis(context.Background(), stream, fingertips.AnalysisRequest{
		IndicatorID: 94146, Query: "q",
	})

	msg := WaitForFragmentCmd(handle)()
	done, ok := msg.(StreamDoneMsg)
	if !ok {
		t.Fatalf("message = %T, want StreamDoneMsg", msg)
	}
	if done.Err == nil {
		t.Error("in-band error must surface in StreamDoneMsg.Err")
	}
}
