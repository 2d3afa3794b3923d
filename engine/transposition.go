package engine

import (
	"unsafe"

	hm "heron-engine/heronmg"
)

const (
	AlphaFlag uint8 = iota
	BetaFlag
	ExactFlag

	// In MB
	DefaultTTSize = 64
	clusterSize   = 4

	// Returned when a probe cannot be used for a cutoff.
	UnusableScore int32 = -32750
)

// TTEntry is one stored position. Mate scores are normalized to "plies
// from this node" on store and re-expanded on probe, so an entry written
// deep in one line stays correct when reached via a shorter one.
type TTEntry struct {
	Hash  uint64
	Move  hm.Move
	Score int16
	Depth int8
	Flag  uint8
	Age   uint8
}

// TransTable is a fixed-capacity table of 4-entry clusters indexed by
// hash modulo cluster count.
type TransTable struct {
	entries       []TTEntry
	clusterCount  uint64
	age           uint8
	isInitialized bool
}

func (tt *TransTable) init(sizeMB int) {
	if sizeMB <= 0 {
		sizeMB = DefaultTTSize
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	clusterCount := uint64(sizeMB) * 1024 * 1024 / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusterCount = clusterCount
	tt.entries = make([]TTEntry, clusterCount*clusterSize)
	tt.age = 0
	tt.isInitialized = true
}

// clear drops every entry but keeps the allocation.
func (tt *TransTable) clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
}

// nextAge advances the age tag. Called once per search so replacement can
// favor evicting entries from earlier searches.
func (tt *TransTable) nextAge() {
	tt.age++
}

// ProbeEntry returns the cluster entry matching hash, if any.
func (tt *TransTable) ProbeEntry(hash uint64) (entry *TTEntry, found bool) {
	if tt.clusterCount == 0 {
		return nil, false
	}
	base := int(hash % tt.clusterCount * clusterSize)
	for i := 0; i < clusterSize; i++ {
		if e := &tt.entries[base+i]; e.Hash == hash {
			return e, true
		}
	}
	return nil, false
}

// useEntry decides whether a probed entry can cut off the current node:
// the stored depth must cover the remaining depth, and the stored bound
// must subsume the window. The returned score has mate distances rebased
// to the probing ply.
func (tt *TransTable) useEntry(entry *TTEntry, hash uint64, depth int8, alpha, beta int32, ply int8) (usable bool, score int32) {
	score = UnusableScore
	if entry == nil || entry.Hash != hash || entry.Depth < depth {
		return false, score
	}
	norm := int32(entry.Score)
	if norm > Checkmate {
		norm -= int32(ply)
	} else if norm < -Checkmate {
		norm += int32(ply)
	}
	switch entry.Flag {
	case ExactFlag:
		return true, norm
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, score
}

// storeEntry writes a search result. Within the cluster it prefers the
// slot already holding this key, then an empty slot, then the entry whose
// age is stalest, breaking ties by shallowest depth.
func (tt *TransTable) storeEntry(hash uint64, depth int8, ply int8, move hm.Move, score int32, flag uint8) {
	if tt.clusterCount == 0 {
		return
	}
	base := int(hash % tt.clusterCount * clusterSize)

	if score > Checkmate {
		score += int32(ply)
	} else if score < -Checkmate {
		score -= int32(ply)
	}

	targetIdx := -1
	for i := 0; i < clusterSize; i++ {
		if tt.entries[base+i].Hash == hash {
			targetIdx = base + i
			break
		}
	}
	if targetIdx == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.entries[base+i].Hash == 0 {
				targetIdx = base + i
				break
			}
		}
	}
	if targetIdx == -1 {
		targetIdx = base
		worst := replaceScore(&tt.entries[base], tt.age)
		for i := 1; i < clusterSize; i++ {
			if s := replaceScore(&tt.entries[base+i], tt.age); s < worst {
				worst = s
				targetIdx = base + i
			}
		}
	}

	e := &tt.entries[targetIdx]
	// Keep a deeper result from the current search over a shallower
	// overwrite of the same key.
	if e.Hash == hash && e.Age == tt.age && e.Depth > depth && flag != ExactFlag {
		return
	}
	e.Hash = hash
	e.Move = move
	e.Score = int16(score)
	e.Depth = depth
	e.Flag = flag
	e.Age = tt.age
}

// replaceScore ranks an entry's worth: older searches rank below the
// current one, then shallower entries rank below deeper ones.
func replaceScore(e *TTEntry, currentAge uint8) int {
	ageGap := int(currentAge - e.Age)
	return -ageGap*256 + int(e.Depth)
}

// hashfull estimates table saturation in permille, sampled from the
// first clusters.
func (tt *TransTable) hashfull() int {
	if len(tt.entries) == 0 {
		return 0
	}
	sample := Min(1000, len(tt.entries))
	used := 0
	for i := 0; i < sample; i++ {
		if tt.entries[i].Hash != 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return used * 1000 / sample
}
