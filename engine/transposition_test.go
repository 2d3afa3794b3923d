package engine

import (
	"testing"

	hm "heron-engine/heronmg"
)

func newTestTT(t *testing.T) *TransTable {
	t.Helper()
	var tt TransTable
	tt.init(1)
	return &tt
}

func TestTTStoreAndProbe(t *testing.T) {
	tt := newTestTT(t)
	move := hm.NewMove(12, 28, hm.WhitePawn, hm.NoPiece, hm.NoPiece, hm.FlagNone)

	tt.storeEntry(0xDEADBEEF, 8, 0, move, 42, ExactFlag)

	entry, found := tt.ProbeEntry(0xDEADBEEF)
	if !found {
		t.Fatal("expected entry to be found")
	}
	if entry.Move != move || entry.Score != 42 || entry.Depth != 8 || entry.Flag != ExactFlag {
		t.Fatalf("entry mismatch: %+v", entry)
	}

	if _, found := tt.ProbeEntry(0xCAFEBABE); found {
		t.Fatal("probe of unknown hash should miss")
	}
}

func TestTTUseEntryRespectsDepthAndBounds(t *testing.T) {
	tt := newTestTT(t)
	tt.storeEntry(1, 6, 0, 0, 100, ExactFlag)
	entry, _ := tt.ProbeEntry(1)

	if usable, score := tt.useEntry(entry, 1, 4, -500, 500, 0); !usable || score != 100 {
		t.Fatalf("exact entry at sufficient depth should cut off (usable=%v score=%d)", usable, score)
	}
	if usable, _ := tt.useEntry(entry, 1, 8, -500, 500, 0); usable {
		t.Fatal("entry shallower than the remaining depth must not cut off")
	}

	tt.storeEntry(2, 6, 0, 0, 100, BetaFlag)
	entry, _ = tt.ProbeEntry(2)
	if usable, score := tt.useEntry(entry, 2, 4, -500, 50, 0); !usable || score != 50 {
		t.Fatalf("beta entry above beta should return beta (usable=%v score=%d)", usable, score)
	}
	if usable, _ := tt.useEntry(entry, 2, 4, -500, 500, 0); usable {
		t.Fatal("beta entry inside the window must not cut off")
	}
}

func TestTTMateScoreRebasing(t *testing.T) {
	tt := newTestTT(t)

	// A mate found 3 plies into this line, stored from ply 2.
	mateScore := MaxScore - 5
	tt.storeEntry(7, 10, 2, 0, mateScore, ExactFlag)

	entry, _ := tt.ProbeEntry(7)
	// Probed from ply 4, the same mate is now 7 plies from the root.
	usable, score := tt.useEntry(entry, 7, 5, -MaxScore, MaxScore, 4)
	if !usable {
		t.Fatal("expected usable exact entry")
	}
	if want := MaxScore - 7; score != want {
		t.Fatalf("expected rebased mate score %d, got %d", want, score)
	}
}

func TestTTClusterReplacementKeepsDeeper(t *testing.T) {
	tt := newTestTT(t)
	tt.storeEntry(11, 10, 0, 0, 30, AlphaFlag)
	// A shallower non-exact store of the same key in the same search
	// must not clobber the deeper entry.
	tt.storeEntry(11, 2, 0, 0, 99, AlphaFlag)

	entry, _ := tt.ProbeEntry(11)
	if entry.Depth != 10 || entry.Score != 30 {
		t.Fatalf("deeper entry was clobbered: %+v", entry)
	}

	// An exact result always replaces.
	tt.storeEntry(11, 2, 0, 0, 99, ExactFlag)
	entry, _ = tt.ProbeEntry(11)
	if entry.Score != 99 || entry.Flag != ExactFlag {
		t.Fatalf("exact entry should replace: %+v", entry)
	}
}

func TestTTAgingEvictsOldEntries(t *testing.T) {
	tt := newTestTT(t)

	// Fill one cluster with old entries, then advance the age and force
	// a replacement: a stale entry must be the victim.
	base := uint64(5)
	for i := uint64(0); i < clusterSize; i++ {
		tt.storeEntry(base+i*tt.clusterCount, 10, 0, 0, 1, ExactFlag)
	}
	tt.nextAge()

	newHash := base + clusterSize*tt.clusterCount
	tt.storeEntry(newHash, 1, 0, 0, 7, ExactFlag)

	if _, found := tt.ProbeEntry(newHash); !found {
		t.Fatal("fresh entry should have evicted a stale one")
	}
}

func TestTTClearDropsEntries(t *testing.T) {
	tt := newTestTT(t)
	tt.storeEntry(3, 5, 0, 0, 10, ExactFlag)
	tt.clear()
	if _, found := tt.ProbeEntry(3); found {
		t.Fatal("expected empty table after clear")
	}
}
