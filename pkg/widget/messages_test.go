package widget

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMessage_EncodeDecodeRoundTrip(t *testing.T) {
	cases := []Message{
		Ready(),
		Resize(480),
		Success("CASE-42"),
		Failure("Something went wrong."),
	}
	for _, msg := range cases {
		data, err := msg.Encode()
		if err != nil {
			t.Fatalf("encode %s: %v", msg.Type, err)
		}
		got, err := DecodeMessage(data)
		if err != nil {
			t.Fatalf("decode %s: %v", msg.Type, err)
		}
		if diff := cmp.Diff(msg, got); diff != "" {
			t.Fatalf("round trip mismatch for %s (-want +got):\n%s", msg.Type, diff)
		}
	}
}

func TestDecodeMessage_RejectsForeignTraffic(t *testing.T) {
	if _, err := DecodeMessage([]byte(`{"type":"analytics:pageview"}`)); err == nil {
		t.Fatal("expected unknown message types to be rejected")
	}
	if _, err := DecodeMessage([]byte(`not json`)); err == nil {
		t.Fatal("expected malformed payloads to be rejected")
	}
}

func TestEncode_RejectsUnknownType(t *testing.T) {
	if _, err := (Message{Type: "wtc:bogus"}).Encode(); err == nil {
		t.Fatal("expected unknown message types to be rejected")
	}
}
