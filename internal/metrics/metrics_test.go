package metrics

import (
	"testing"

	broadcast "github.com/broadcastkit/engine"
)

func TestSinkSatisfiesProgressSink(t *testing.T) {
	var _ broadcast.ProgressSink = Sink{ChainID: "1"}
}

type captured struct{ lines []string }

func (c *captured) Println(s string) { c.lines = append(c.lines, s) }

func TestSinkPrintlnForwardsToFallback(t *testing.T) {
	fb := &captured{}
	s := Sink{ChainID: "1", Fallback: fb}
	s.Println("hello")
	if len(fb.lines) != 1 || fb.lines[0] != "hello" {
		t.Errorf("fallback lines = %v, want [hello]", fb.lines)
	}
}

func TestSinkUpdateDoesNotPanic(t *testing.T) {
	s := Sink{ChainID: "1"}
	s.Update(5)
	s.RecordConfirmation(1)
	s.RecordConfirmation(0)
}
