package engine

import (
	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

// pool owns every live word of a session.
// Nothing outside the engine holds a *object.Word across calls.
type pool struct {
	words   []*object.Word
	nextID  int
	scratch []*object.Word // Reused tick-start snapshot
}

func (p *pool) add(w *object.Word) *object.Word {
	p.nextID++
	w.ID = p.nextID
	p.words = append(p.words, w)
	return w
}

// live counts words not marked for removal.
func (p *pool) live() int {
	n := 0
	for _, w := range p.words {
		if !w.IsDestroyed() {
			n++
		}
	}
	return n
}

// stable returns the words as of now. Words added while iterating
// the result are not visited.
func (p *pool) stable() []*object.Word {
	p.scratch = append(p.scratch[:0], p.words...)
	return p.scratch
}

// purge drops words marked for removal.
func (p *pool) purge() {
	kept := p.words[:0]
	for _, w := range p.words {
		if !w.IsDestroyed() {
			kept = append(kept, w)
		}
	}
	clear(p.words[len(kept):])
	p.words = kept
}

// match returns the live word with the given key closest to the floor.
func (p *pool) match(key string) *object.Word {
	var best *object.Word
	for _, w := range p.words {
		if w.IsDestroyed() || w.Key != key {
			continue
		}
		if best == nil || w.Y > best.Y {
			best = w
		}
	}
	return best
}

// accelerate multiplies the speed of every live word.
func (p *pool) accelerate(factor float64) {
	for _, w := range p.words {
		if !w.IsDestroyed() {
			w.Speed *= factor
		}
	}
}

// copies returns value copies of the live words.
func (p *pool) copies() []object.Word {
	out := make([]object.Word, 0, len(p.words))
	for _, w := range p.words {
		if !w.IsDestroyed() {
			out = append(out, *w)
		}
	}
	return out
}

func (p *pool) reset() {
	clear(p.words)
	p.words = p.words[:0]
	p.scratch = p.scratch[:0]
	p.nextID = 0
}
