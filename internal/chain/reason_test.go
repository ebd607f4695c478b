package chain

import (
	"reflect"
	"testing"
)

func TestReasonExactMatchReinforces(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("ping", "pong")
	c.Memory[0].Confidence = 0.5

	out := c.Reason("ping")
	if out != "pong" {
		t.Errorf("Reason = %q, want pong", out)
	}
	if c.Memory[0].UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1", c.Memory[0].UsageCount)
	}
	if c.Memory[0].Confidence <= 0.5 {
		t.Error("exact match should reinforce confidence")
	}
}

func TestReasonFuzzyMatchWithinThreshold(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("hello there", "hi")

	out := c.Reason("hallo there")
	if out != "hi" {
		t.Errorf("Reason = %q, want hi (fuzzy match)", out)
	}
}

func TestReasonUnknownWhenNoMatch(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("x", "y")

	out := c.Reason("completely different string of text")
	if out != unknownOutput {
		t.Errorf("Reason = %q, want %q", out, unknownOutput)
	}
}

func TestReasonVerboseReportsMatch(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("q", "a")

	out, conf, block, ok := c.ReasonVerbose("q")
	if !ok {
		t.Fatal("expected ok=true")
	}
	if out != "a" {
		t.Errorf("output = %q, want a", out)
	}
	if conf != maxConfidence {
		t.Errorf("confidence = %v, want %v", conf, maxConfidence)
	}
	if block == nil || block.Input != "q" {
		t.Errorf("block = %+v", block)
	}
}

func TestReasonVerboseNoMatch(t *testing.T) {
	c := New(newTestDeviceID())
	out, conf, block, ok := c.ReasonVerbose("nothing")
	if ok || out != unknownOutput || conf != 0 || block != nil {
		t.Errorf("got (%q, %v, %v, %v), want unknown/0/nil/false", out, conf, block, ok)
	}
}

func TestReasonVerbosePrefersImmutableOnTie(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("q", "a1")
	c.admitInto("q", "a2")
	c.Memory[0].Confidence = 0.5
	c.Memory[1].Confidence = 0.5
	c.Memory[1].Immutable = true

	out, _, block, ok := c.ReasonVerbose("q")
	if !ok {
		t.Fatal("expected a match")
	}
	if out != "a2" || !block.Immutable {
		t.Errorf("expected immutable block a2 to win the tie, got %q", out)
	}
}

func TestBestMatchPrefersHigherConfidence(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("q", "low")
	c.admitInto("q", "high")
	c.Memory[0].Confidence = 0.2
	c.Memory[1].Confidence = 0.9

	best := c.BestMatch("q")
	if best == nil || best.Output != "high" {
		t.Errorf("BestMatch = %+v, want output=high", best)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hello, World! 123", 10)
	want := []string{"hello", "world", "123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeRespectsMaxTokens(t *testing.T) {
	got := Tokenize("one two three four", 2)
	want := []string{"one", "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeTruncatesLongToken(t *testing.T) {
	long := ""
	for i := 0; i < TokenSize+10; i++ {
		long += "a"
	}
	got := Tokenize(long, 5)
	if len(got) != 1 {
		t.Fatalf("Tokenize = %v, want 1 token", got)
	}
	if len(got[0]) != TokenSize-1 {
		t.Errorf("len(token) = %d, want %d", len(got[0]), TokenSize-1)
	}
}
