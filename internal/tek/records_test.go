package tek

import (
	"bytes"
	"testing"
)

func TestTapeRecordsSingle(t *testing.T) {
	payload := []byte{1, 2, 3}
	out := TapeRecords(payload)

	// header + payload + zero trailer + sentinel
	if len(out) != 2+3+1+3 {
		t.Fatalf("Expected 9 bytes, got %d", len(out))
	}
	if out[0] != 0x40 || out[1] != 3 {
		t.Errorf("Header should be 40 03, got %02x %02x", out[0], out[1])
	}
	if !bytes.Equal(out[2:5], payload) {
		t.Errorf("Payload mangled: % x", out[2:5])
	}
	if out[5] != 0 {
		t.Errorf("Record should end with a zero byte, got %02x", out[5])
	}
	if !bytes.Equal(out[6:], []byte{0x40, 0x01, 'X'}) {
		t.Errorf("Sentinel wrong: % x", out[6:])
	}
}

func TestTapeRecordsSplit(t *testing.T) {
	payload := make([]byte, RecordSize+10)
	for i := range payload {
		payload[i] = byte(i % 7)
	}
	out := TapeRecords(payload)

	rec1 := 2 + RecordSize + 1
	rec2 := 2 + 10 + 1
	if len(out) != rec1+rec2+3 {
		t.Fatalf("Expected %d bytes, got %d", rec1+rec2+3, len(out))
	}

	// First record header: 8175 = 0x1fef, high byte OR'd with 0x40
	if out[0] != 0x5f || out[1] != 0xef {
		t.Errorf("First header should be 5f ef, got %02x %02x", out[0], out[1])
	}
	// Second record header
	if out[rec1] != 0x40 || out[rec1+1] != 10 {
		t.Errorf("Second header should be 40 0a, got %02x %02x", out[rec1], out[rec1+1])
	}

	// The continuation bit lands in the third-from-last byte of the first
	// assembled record
	linked := out[rec1-3]
	original := payload[RecordSize-2]
	if linked != original|0x40 {
		t.Errorf("Continuation byte should be %02x, got %02x", original|0x40, linked)
	}
	// Everything before it is untouched
	if !bytes.Equal(out[2:rec1-3], payload[:RecordSize-2]) {
		t.Error("First record payload mangled before the continuation byte")
	}
	// Payload byte lengths still sum to the input length
	if !bytes.Equal(out[rec1+2:rec1+2+10], payload[RecordSize:]) {
		t.Error("Second record payload mangled")
	}

	if !bytes.Equal(out[len(out)-3:], []byte{0x40, 0x01, 'X'}) {
		t.Errorf("Sentinel wrong: % x", out[len(out)-3:])
	}
}

func TestTapeRecordsExactMultiple(t *testing.T) {
	payload := make([]byte, 2*RecordSize)
	out := TapeRecords(payload)

	recLen := 2 + RecordSize + 1
	if len(out) != 2*recLen+3 {
		t.Fatalf("Expected exactly 2 full records + sentinel, got %d bytes", len(out))
	}
	if out[recLen] != 0x5f || out[recLen+1] != 0xef {
		t.Errorf("Second record header wrong: %02x %02x", out[recLen], out[recLen+1])
	}
	// First record got its continuation bit, the second did not
	if out[recLen-3] != 0x40 {
		t.Errorf("First record continuation byte should be 40, got %02x", out[recLen-3])
	}
	if out[2*recLen-3] != 0 {
		t.Errorf("Last record must not carry a continuation bit, got %02x", out[2*recLen-3])
	}
}

func TestTapeRecordsEmpty(t *testing.T) {
	out := TapeRecords(nil)
	if !bytes.Equal(out, []byte{0x40, 0x01, 'X'}) {
		t.Errorf("Empty input should give just the sentinel, got % x", out)
	}
}
