package envelope

import "testing"

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestBuffer_ReleaseOnce(t *testing.T) {
	buf, err := Encode(Int(1))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Released() {
		t.Fatal("fresh buffer reported released")
	}
	buf.Release()
	if !buf.Released() {
		t.Fatal("buffer not marked released")
	}

	mustPanic(t, "Bytes after release", func() { buf.Bytes() })
	mustPanic(t, "Len after release", func() { buf.Len() })
	mustPanic(t, "double release", func() { buf.Release() })
}

func TestBuffer_ReuseDoesNotAlias(t *testing.T) {
	a, _ := Encode(Int(1))
	a.Release()
	b, _ := Encode(Int(2))
	defer b.Release()

	mustPanic(t, "stale handle", func() { a.Bytes() })
	v, err := Decode(b.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(v, Int(2)) {
		t.Errorf("got %v", v)
	}
}
