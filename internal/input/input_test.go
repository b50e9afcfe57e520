package input

import (
	"io"
	"reflect"
	"testing"
	"time"
)

func runes(s string) []Key {
	var out []Key
	for _, r := range s {
		out = append(out, Key{Type: KeyRune, Rune: r})
	}
	return out
}

func TestDecoderASCIIAndControls(t *testing.T) {
	var d Decoder
	got := d.Feed([]byte("ab\r\x7f\x03\t\x15\x01"))
	want := append(runes("ab"),
		Key{Type: KeyEnter},
		Key{Type: KeyBackspace},
		Key{Type: KeyCtrlC},
		Key{Type: KeyTab},
		Key{Type: KeyCtrlU},
	)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDecoderSplitUTF8(t *testing.T) {
	var d Decoder
	b := []byte("사과")
	if got := d.Feed(b[:2]); len(got) != 0 {
		t.Fatalf("partial rune decoded early: %+v", got)
	}
	got := d.Feed(b[2:4])
	if !reflect.DeepEqual(got, runes("사")) {
		t.Fatalf("got %+v, want 사", got)
	}
	got = d.Feed(b[4:])
	if !reflect.DeepEqual(got, runes("과")) {
		t.Fatalf("got %+v, want 과", got)
	}
}

func TestDecoderEscapeSequences(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []Key
	}{
		{"arrows", []string{"\x1b[A\x1b[B\x1b[C\x1b[D"}, []Key{{Type: KeyUp}, {Type: KeyDown}, {Type: KeyRight}, {Type: KeyLeft}}},
		{"lone escape", []string{"\x1b"}, []Key{{Type: KeyEscape}}},
		{"escape then text", []string{"\x1bq"}, append([]Key{{Type: KeyEscape}}, runes("q")...)},
		{"split csi", []string{"\x1b[", "A"}, []Key{{Type: KeyUp}}},
		{"delete", []string{"\x1b[3", "~"}, []Key{{Type: KeyDelete}}},
		{"unknown csi", []string{"\x1b[1;5Hx"}, append([]Key{{Type: KeyEscape}}, runes("x")...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			var got []Key
			for _, c := range tt.chunks {
				got = append(got, d.Feed([]byte(c))...)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStreamCollapsesCRLF(t *testing.T) {
	pr, pw := io.Pipe()
	s := StartStream(pr)

	go func() {
		_, _ = pw.Write([]byte("ok\r"))
		_, _ = pw.Write([]byte("\nx\r\n"))
		_ = pw.Close()
	}()

	var keys []Key
	deadline := time.Now().Add(2 * time.Second)
	for !s.Closed() && time.Now().Before(deadline) {
		keys = append(keys, ReadKeys(s)...)
		time.Sleep(time.Millisecond)
	}
	want := append(runes("ok"), Key{Type: KeyEnter})
	want = append(want, runes("x")...)
	want = append(want, Key{Type: KeyEnter})
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("got %+v, want %+v", keys, want)
	}
}

func TestLineEditing(t *testing.T) {
	l := NewLine(4)
	for _, k := range runes("사과abc") {
		l.Apply(k)
	}
	if got := l.String(); got != "사과ab" {
		t.Fatalf("line = %q, want capped at 4 runes", got)
	}
	if l.Width() != 6 {
		t.Errorf("width = %d, want 6", l.Width())
	}
	l.Apply(Key{Type: KeyBackspace})
	if l.String() != "사과a" {
		t.Errorf("after backspace = %q", l.String())
	}
	if l.Apply(Key{Type: KeyEnter}) {
		t.Error("Enter should not be consumed by the editor")
	}
	if got := l.Take(); got != "사과a" || l.Len() != 0 {
		t.Errorf("Take = %q, remaining %d", got, l.Len())
	}
	l.Apply(Key{Type: KeyBackspace})
	l.Apply(Key{Type: KeyRune, Rune: 'z'})
	l.Apply(Key{Type: KeyCtrlU})
	if l.Len() != 0 {
		t.Errorf("Ctrl-U should clear, got %q", l.String())
	}
}
