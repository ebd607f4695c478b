package chain

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("ping", "pong")
	c.Learn("second", "block")
	c.Memory[1].Immutable = true
	c.Memory[1].UsageCount = 3

	data := c.Marshal()
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Count != c.Count {
		t.Fatalf("Count = %d, want %d", got.Count, c.Count)
	}
	if got.DeviceID != c.DeviceID {
		t.Errorf("DeviceID mismatch")
	}
	if got.CreatedAt != c.CreatedAt || got.UpdatedAt != c.UpdatedAt {
		t.Errorf("timestamps mismatch")
	}
	for i := 0; i < c.Count; i++ {
		want := c.Memory[i]
		have := got.Memory[i]
		if have.Input != want.Input || have.Output != want.Output {
			t.Errorf("block %d: input/output mismatch: %+v != %+v", i, have, want)
		}
		if have.Hash != want.Hash {
			t.Errorf("block %d: hash mismatch", i)
		}
		if have.Valid != want.Valid {
			t.Errorf("block %d: valid mismatch", i)
		}
		// The .fish format has no immutable field, so a loaded block is
		// never immutable, even when the saved one was.
		if have.UsageCount != want.UsageCount || have.Immutable {
			t.Errorf("block %d: usage_count mismatch or immutable set after load", i)
		}
	}
}

func TestMarshalEscapesQuotesAndBackslashes(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn(`say "hi"`, `back\slash`)

	data := c.Marshal()
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Memory[0].Input != `say "hi"` {
		t.Errorf("Input = %q", got.Memory[0].Input)
	}
	if got.Memory[0].Output != `back\slash` {
		t.Errorf("Output = %q", got.Memory[0].Output)
	}
}

func TestUnmarshalRejectsBadSignature(t *testing.T) {
	bad := strings.Replace(string(New(newTestDeviceID()).Marshal()), fishSignature, "NOPE", 1)
	_, err := Unmarshal([]byte(bad))
	if err == nil {
		t.Fatal("expected an error for a bad signature")
	}
}

func TestUnmarshalRejectsTruncatedInput(t *testing.T) {
	_, err := Unmarshal([]byte(`{"signature": "JFS1"`))
	if err == nil {
		t.Fatal("expected an error for truncated input")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.fish")

	c := New(newTestDeviceID())
	c.Learn("a", "1")

	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Count != 1 || got.Memory[0].Input != "a" {
		t.Errorf("loaded chain mismatch: %+v", got)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Save should not leave a .tmp file behind")
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.fish")

	data := make([]byte, MaxFishFileSize+1)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for an oversized file")
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.fish")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.fish"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
