package audit

import (
	"testing"
)

func TestNewEntry(t *testing.T) {
	entry, err := NewEntry(KindVoteCast, "req-1", "phone-1", map[string]string{"value": "APPROVE"})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if entry.ID.String() == "" || entry.CreatedAt.IsZero() {
		t.Fatalf("entry missing identity fields: %+v", entry)
	}
	if len(entry.Payload) == 0 {
		t.Fatalf("payload not marshaled")
	}
	if _, err := NewEntry("", "req-1", "x", nil); err != ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry for empty kind, got %v", err)
	}
	if _, err := NewEntry(KindVoteCast, "", "x", nil); err != ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry for empty ref, got %v", err)
	}
}

func TestNewEntryDefaultsActor(t *testing.T) {
	entry, err := NewEntry(KindResultEmitted, "req-1", "", nil)
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if entry.Actor != "system" {
		t.Fatalf("expected system actor, got %q", entry.Actor)
	}
}

func TestSignAndVerify(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	entry, err := NewEntry(KindRevocationExecuted, "device-7", "coordinator", map[string]string{"reason": "stolen"})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}

	ok, err := Verify(entry, key)
	if err != nil || ok {
		t.Fatalf("unsigned entry must not verify, got ok=%v err=%v", ok, err)
	}

	sig, err := Sign(entry, key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	entry.Signature = sig

	ok, err = Verify(entry, key)
	if err != nil || !ok {
		t.Fatalf("expected valid signature, got ok=%v err=%v", ok, err)
	}

	entry.RefID = "device-8"
	ok, err = Verify(entry, key)
	if err != nil || ok {
		t.Fatalf("tampered entry must not verify")
	}

	entry.RefID = "device-7"
	ok, err = Verify(entry, []byte("wrong-key-wrong-key-wrong-key-00"))
	if err != nil || ok {
		t.Fatalf("wrong key must not verify")
	}
}
