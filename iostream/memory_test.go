package iostream

import "testing"

func TestFixedMemoryReadOnlyRejectsWrite(t *testing.T) {
	s := NewFixedMemory([]byte{1, 2, 3})
	if _, err := s.TolerantWrite([]byte{9}); err == nil {
		t.Fatal("TolerantWrite on a read-only fixed-memory stream should fail")
	}
}

func TestFixedMemoryReadWriteRejectsWritePastEnd(t *testing.T) {
	buf := make([]byte, 4)
	s := NewFixedMemoryReadWrite(buf)
	if err := s.Seek(0, SeekEnd); err != nil {
		t.Fatal(err)
	}
	if err := s.StrictWrite([]byte{1}); err == nil {
		t.Fatal("StrictWrite past the fixed buffer's length should fail")
	}
}

func TestFixedMemoryReadWriteInPlace(t *testing.T) {
	buf := []byte{0, 0, 0, 0}
	s := NewFixedMemoryReadWrite(buf)
	if err := s.StrictWrite([]byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 1 || buf[1] != 2 {
		t.Fatalf("buf = %v, want writes reflected in place", buf)
	}
}

func TestFixedMemoryEOFAndSize(t *testing.T) {
	s := NewFixedMemory([]byte{1, 2, 3})
	size, err := s.Size()
	if err != nil || size != 3 {
		t.Fatalf("Size() = %d, %v, want 3, nil", size, err)
	}
	if eof, _ := s.EOF(); eof {
		t.Fatal("EOF() should be false before reading anything")
	}
	if err := s.StrictRead(make([]byte, 3)); err != nil {
		t.Fatal(err)
	}
	if eof, _ := s.EOF(); !eof {
		t.Fatal("EOF() should be true after reading every byte")
	}
}

func TestFixedMemoryStrictReadShortFails(t *testing.T) {
	s := NewFixedMemory([]byte{1, 2})
	if err := s.StrictRead(make([]byte, 3)); err == nil {
		t.Fatal("StrictRead requesting more bytes than available should fail")
	}
}
