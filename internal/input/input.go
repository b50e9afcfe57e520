package input

import (
	"io"
	"unicode"
	"unicode/utf8"
)

// KeyType identifies a decoded key.
type KeyType int

const (
	KeyRune KeyType = iota // Printable character in Key.Rune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEscape
	KeyCtrlC
	KeyCtrlU // Clear line
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Key is one decoded key press.
type Key struct {
	Type KeyType
	Rune rune
}

// Decoder turns raw terminal bytes into keys. Multi-byte UTF-8 characters
// (Hangul, kana) and escape sequences split across reads are held until complete.
type Decoder struct {
	pending []byte
}

// Feed decodes b together with any bytes held from the previous call.
func (d *Decoder) Feed(b []byte) []Key {
	buf := make([]byte, 0, len(d.pending)+len(b))
	buf = append(append(buf, d.pending...), b...)
	d.pending = d.pending[:0]

	var keys []Key
	for i := 0; i < len(buf); {
		c := buf[i]
		if c == '\x1b' {
			k, n, complete := decodeEscape(buf[i:])
			if !complete {
				d.pending = append(d.pending, buf[i:]...)
				break
			}
			keys = append(keys, k)
			i += n
			continue
		}
		if c < utf8.RuneSelf {
			if k, ok := controlKey(c); ok {
				keys = append(keys, k)
			}
			i++
			continue
		}
		if !utf8.FullRune(buf[i:]) {
			d.pending = append(d.pending, buf[i:]...)
			break
		}
		r, n := utf8.DecodeRune(buf[i:])
		if r != utf8.RuneError && unicode.IsPrint(r) {
			keys = append(keys, Key{Type: KeyRune, Rune: r})
		}
		i += n
	}
	return keys
}

// decodeEscape reads an escape sequence at the start of b. A lone ESC is the
// Escape key; "ESC [" with nothing after it waits for more input.
func decodeEscape(b []byte) (Key, int, bool) {
	if len(b) == 1 || b[1] != '[' {
		return Key{Type: KeyEscape}, 1, true
	}
	if len(b) == 2 {
		return Key{}, 0, false
	}
	switch b[2] {
	case 'A':
		return Key{Type: KeyUp}, 3, true
	case 'B':
		return Key{Type: KeyDown}, 3, true
	case 'C':
		return Key{Type: KeyRight}, 3, true
	case 'D':
		return Key{Type: KeyLeft}, 3, true
	case '3':
		if len(b) == 3 {
			return Key{}, 0, false
		}
		if b[3] == '~' {
			return Key{Type: KeyDelete}, 4, true
		}
	}
	// Unknown CSI: skip to its final byte.
	for j := 2; j < len(b); j++ {
		if b[j] >= 0x40 && b[j] <= 0x7e {
			return Key{Type: KeyEscape}, j + 1, true
		}
	}
	return Key{}, 0, false
}

func controlKey(c byte) (Key, bool) {
	switch c {
	case '\r', '\n':
		return Key{Type: KeyEnter}, true
	case '\b', '\x7f':
		return Key{Type: KeyBackspace}, true
	case '\x03':
		return Key{Type: KeyCtrlC}, true
	case '\x15':
		return Key{Type: KeyCtrlU}, true
	case '\t':
		return Key{Type: KeyTab}, true
	}
	if c >= 0x20 && c < 0x7f {
		return Key{Type: KeyRune, Rune: rune(c)}, true
	}
	return Key{}, false
}

// Stream delivers raw input chunks via a channel so the frame loop never blocks on reads.
type Stream struct {
	ch     chan []byte
	dec    Decoder
	closed bool
	lastCR bool
}

// StartStream spawns a goroutine that reads from r and sends chunks to the stream.
func StartStream(r io.Reader) *Stream {
	s := &Stream{ch: make(chan []byte, 64)}
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				s.ch <- chunk
			}
			if err != nil {
				close(s.ch)
				return
			}
		}
	}()
	return s
}

// ReadKeys drains all available input without blocking.
// A CR immediately followed by LF counts as one Enter.
func ReadKeys(s *Stream) []Key {
	var keys []Key
	for {
		select {
		case chunk, ok := <-s.ch:
			if !ok {
				s.closed = true
				return keys
			}
			keys = append(keys, s.filterCRLF(chunk)...)
		default:
			return keys
		}
	}
}

func (s *Stream) filterCRLF(chunk []byte) []Key {
	if s.lastCR && len(chunk) > 0 && chunk[0] == '\n' {
		chunk = chunk[1:]
	}
	s.lastCR = false
	out := chunk[:0:0]
	for i, c := range chunk {
		if c == '\n' && i > 0 && chunk[i-1] == '\r' {
			continue
		}
		out = append(out, c)
	}
	if n := len(chunk); n > 0 && chunk[n-1] == '\r' {
		s.lastCR = true
	}
	return s.dec.Feed(out)
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}
