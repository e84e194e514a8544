package wikitext

import "sort"

// Match is a common run between two texts: a[A:A+Size] == b[B:B+Size],
// with offsets in runes.
type Match struct {
	A    int
	B    int
	Size int
}

// OpCode describes how to turn a[I1:I2] into b[J1:J2]. Tag is one of
// "equal", "replace", "delete" or "insert".
type OpCode struct {
	Tag string
	I1  int
	I2  int
	J1  int
	J2  int
}

// sequenceMatcher finds longest common runs between two rune sequences.
// Popular runes (more than 1% of a long second sequence) are dropped from
// the index so pathological inputs stay near-linear, matching blocks can
// still grow into them during extension.
type sequenceMatcher struct {
	a, b     []rune
	b2j      map[rune][]int
	bpopular map[rune]bool
}

func newSequenceMatcher(a, b string) *sequenceMatcher {
	m := &sequenceMatcher{
		a:        []rune(a),
		b:        []rune(b),
		b2j:      make(map[rune][]int),
		bpopular: make(map[rune]bool),
	}
	for j, r := range m.b {
		m.b2j[r] = append(m.b2j[r], j)
	}
	if n := len(m.b); n >= 200 {
		threshold := n/100 + 1
		for r, idxs := range m.b2j {
			if len(idxs) > threshold {
				m.bpopular[r] = true
				delete(m.b2j, r)
			}
		}
	}
	return m
}

func (m *sequenceMatcher) findLongestMatch(alo, ahi, blo, bhi int) Match {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	// Extend the match into popular runes excluded from the index.
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti--
		bestj--
		bestsize++
	}
	for besti+bestsize < ahi && bestj+bestsize < bhi &&
		m.a[besti+bestsize] == m.b[bestj+bestsize] {
		bestsize++
	}

	return Match{A: besti, B: bestj, Size: bestsize}
}

// matchingBlocks returns the non-overlapping common runs in order, plus a
// terminal zero-length sentinel at (len(a), len(b)).
func (m *sequenceMatcher) matchingBlocks() []Match {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	var matching []Match

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		match := m.findLongestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if match.Size == 0 {
			continue
		}
		matching = append(matching, match)
		if s.alo < match.A && s.blo < match.B {
			queue = append(queue, span{s.alo, match.A, s.blo, match.B})
		}
		if match.A+match.Size < s.ahi && match.B+match.Size < s.bhi {
			queue = append(queue, span{match.A + match.Size, s.ahi, match.B + match.Size, s.bhi})
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		if matching[i].A != matching[j].A {
			return matching[i].A < matching[j].A
		}
		return matching[i].B < matching[j].B
	})

	// Merge adjacent blocks.
	var merged []Match
	var cur Match
	for _, b := range matching {
		if cur.A+cur.Size == b.A && cur.B+cur.Size == b.B {
			cur.Size += b.Size
			continue
		}
		if cur.Size > 0 {
			merged = append(merged, cur)
		}
		cur = b
	}
	if cur.Size > 0 {
		merged = append(merged, cur)
	}

	return append(merged, Match{A: len(m.a), B: len(m.b)})
}

func (m *sequenceMatcher) opCodes() []OpCode {
	var codes []OpCode
	i, j := 0, 0
	for _, b := range m.matchingBlocks() {
		tag := ""
		switch {
		case i < b.A && j < b.B:
			tag = "replace"
		case i < b.A:
			tag = "delete"
		case j < b.B:
			tag = "insert"
		}
		if tag != "" {
			codes = append(codes, OpCode{Tag: tag, I1: i, I2: b.A, J1: j, J2: b.B})
		}
		i, j = b.A+b.Size, b.B+b.Size
		if b.Size > 0 {
			codes = append(codes, OpCode{Tag: "equal", I1: b.A, I2: i, J1: b.B, J2: j})
		}
	}
	return codes
}

// MatchingBlocks returns the common runs between a and b, ending with the
// zero-length sentinel block.
func MatchingBlocks(a, b string) []Match {
	return newSequenceMatcher(a, b).matchingBlocks()
}

// OpCodes returns the edit script turning a into b.
func OpCodes(a, b string) []OpCode {
	return newSequenceMatcher(a, b).opCodes()
}

// SignificantMatchRatio measures how much of addition survives in latest:
// the total length of common runs of at least minBlockSize runes, divided
// by the addition's length. Returns 1 for an empty addition.
func SignificantMatchRatio(addition, latest string, minBlockSize int) float64 {
	runes := []rune(addition)
	if len(runes) == 0 {
		return 1
	}
	blocks := MatchingBlocks(addition, latest)
	total := 0
	for _, b := range blocks[:len(blocks)-1] {
		if b.Size >= minBlockSize {
			total += b.Size
		}
	}
	return float64(total) / float64(len(runes))
}
