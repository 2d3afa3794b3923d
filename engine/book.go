package engine

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"sort"

	hm "heron-engine/heronmg"
)

// bookEntry is one 16-byte Polyglot record: position key, packed move,
// weight, and an unused learn field.
type bookEntry struct {
	key    uint64
	move   uint16
	weight uint16
}

const bookRecordSize = 16

// OpeningBook holds the entries of a Polyglot book file, sorted by key.
type OpeningBook struct {
	entries []bookEntry
	rng     *rand.Rand
}

// LoadBook reads a Polyglot book from disk. Entries are expected
// key-sorted as the format prescribes; we re-sort to be safe.
func LoadBook(path string) (*OpeningBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}
	if len(data)%bookRecordSize != 0 {
		return nil, fmt.Errorf("opening book: %s is not a polyglot book (size %d)", path, len(data))
	}

	book := &OpeningBook{entries: make([]bookEntry, 0, len(data)/bookRecordSize)}
	for off := 0; off+bookRecordSize <= len(data); off += bookRecordSize {
		book.entries = append(book.entries, bookEntry{
			key:    binary.BigEndian.Uint64(data[off:]),
			move:   binary.BigEndian.Uint16(data[off+8:]),
			weight: binary.BigEndian.Uint16(data[off+10:]),
		})
	}
	sort.Slice(book.entries, func(i, j int) bool { return book.entries[i].key < book.entries[j].key })
	return book, nil
}

// SetSeed makes book picks weighted-random. With no seed set the
// heaviest entry wins, which keeps games reproducible.
func (ob *OpeningBook) SetSeed(seed int64) {
	if seed == 0 {
		ob.rng = nil
		return
	}
	ob.rng = rand.New(rand.NewSource(seed))
}

// Probe looks the position up and returns a legal book move, or 0 when
// the position is out of book.
func (ob *OpeningBook) Probe(b *hm.Board) hm.Move {
	if ob == nil || len(ob.entries) == 0 {
		return 0
	}
	key := b.PolyglotHash()
	first := sort.Search(len(ob.entries), func(i int) bool { return ob.entries[i].key >= key })

	var candidates []bookEntry
	for i := first; i < len(ob.entries) && ob.entries[i].key == key; i++ {
		candidates = append(candidates, ob.entries[i])
	}
	if len(candidates) == 0 {
		return 0
	}

	picked := candidates[0]
	if ob.rng == nil {
		for _, entry := range candidates[1:] {
			if entry.weight > picked.weight {
				picked = entry
			}
		}
	} else {
		var total int
		for _, entry := range candidates {
			total += int(entry.weight) + 1
		}
		roll := ob.rng.Intn(total)
		for _, entry := range candidates {
			roll -= int(entry.weight) + 1
			if roll < 0 {
				picked = entry
				break
			}
		}
	}
	return matchBookMove(b, picked.move)
}

// matchBookMove decodes a packed Polyglot move and matches it against
// the legal moves, so corrupt or colliding entries can never yield an
// illegal move. Polyglot writes castling as king-takes-rook.
func matchBookMove(b *hm.Board, packed uint16) hm.Move {
	to := hm.Square(packed & 0x3F)
	from := hm.Square(packed >> 6 & 0x3F)
	promoCode := int(packed >> 12 & 0x7) // 0 none, 1 knight .. 4 queen
	wantPromo := hm.PieceTypeNone
	if promoCode != 0 {
		wantPromo = hm.PieceType(promoCode + 1)
	}

	if b.PieceAt(from).Type() == hm.PieceTypeKing {
		switch {
		case from == 4 && to == 7:
			to = 6
		case from == 4 && to == 0:
			to = 2
		case from == 60 && to == 63:
			to = 62
		case from == 60 && to == 56:
			to = 58
		}
	}

	for _, m := range b.GenerateMoves() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.PromotionPiece().Type() != wantPromo {
			continue
		}
		return m
	}
	return 0
}
