package socksio

import "testing"

func TestBufferAppendPeekConsume(t *testing.T) {
	var b Buffer

	if got, ok := b.Peek(1); ok || got != nil {
		t.Fatalf("Peek on empty buffer = (%v, %v), want (nil, false)", got, ok)
	}

	b.Append([]byte{0x01, 0x02, 0x03})
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}

	got, ok := b.Peek(2)
	if !ok {
		t.Fatal("Peek(2) = false, want true")
	}
	if got[0] != 0x01 || got[1] != 0x02 {
		t.Fatalf("Peek(2) = %v, want [1 2]", got)
	}
	if b.Len() != 3 {
		t.Fatalf("Peek must not consume: Len() = %d, want 3", b.Len())
	}

	b.Consume(2)
	if b.Len() != 1 {
		t.Fatalf("Len() after Consume(2) = %d, want 1", b.Len())
	}

	got, ok = b.Peek(1)
	if !ok || got[0] != 0x03 {
		t.Fatalf("Peek(1) after consume = (%v, %v), want ([3], true)", got, ok)
	}
}

func TestBufferPeekInsufficientData(t *testing.T) {
	var b Buffer
	b.Append([]byte{0x01})

	if got, ok := b.Peek(2); ok || got != nil {
		t.Fatalf("Peek(2) with 1 buffered byte = (%v, %v), want (nil, false)", got, ok)
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (untouched)", b.Len())
	}
}

func TestBufferFragmentedAppendEquivalence(t *testing.T) {
	whole := []byte{0x05, 0x00, 0x00, 0x01, 0x7f, 0x00, 0x00, 0x01, 0x00, 0x50}

	var oneShot Buffer
	oneShot.Append(whole)

	var fragmented Buffer
	for _, chunk := range [][]byte{whole[:1], whole[1:4], whole[4:]} {
		fragmented.Append(chunk)
	}

	a, _ := oneShot.Peek(oneShot.Len())
	b, _ := fragmented.Peek(fragmented.Len())
	if string(a) != string(b) {
		t.Fatalf("fragmented append produced %v, want %v", b, a)
	}
}

func TestBufferConsumeTooMuchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Consume beyond buffered length did not panic")
		}
	}()

	var b Buffer
	b.Append([]byte{0x01})
	b.Consume(2)
}

func TestOutBufferQueueAndDrain(t *testing.T) {
	var o OutBuffer

	if got := o.DataToSend(); got != nil {
		t.Fatalf("DataToSend on empty buffer = %v, want nil", got)
	}

	o.Queue([]byte{0x04, 0x01})
	o.Queue([]byte{0x00, 0x50})

	got := o.DataToSend()
	want := []byte{0x04, 0x01, 0x00, 0x50}
	if string(got) != string(want) {
		t.Fatalf("DataToSend() = %v, want %v", got, want)
	}

	if got := o.DataToSend(); got != nil {
		t.Fatalf("second DataToSend() = %v, want nil (buffer must be cleared)", got)
	}
}
