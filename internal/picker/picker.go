// Package picker implements the generic streaming fuzzy-filter selector of
// spec.md §4.8: candidates arrive on a channel from an enumerator the
// picker does not control, are scored against the current query, and kept
// in a bounded top-N ordered set that is rescored in place whenever the
// query changes rather than restarting the enumerator.
package picker

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/btree"
)

// Kind distinguishes what a picker is enumerating, per spec.md §4.8's
// buffer/file/command-palette pickers.
type Kind int

const (
	KindBuffer Kind = iota
	KindFile
	KindCommand
)

// Candidate is one item offered to a picker by its enumerator.
type Candidate struct {
	Text string
	Meta any
}

// item is the btree element: ordered by score descending, then by
// insertion sequence ascending so ties stay stable.
type item struct {
	score int
	seq   int
	cand  Candidate
}

func (a *item) Less(than btree.Item) bool {
	b := than.(*item)
	if a.score != b.score {
		return a.score > b.score
	}
	return a.seq < b.seq
}

// Picker holds the retained candidate pool and current query for one
// picker session.
type Picker struct {
	kind  Kind
	topN  int

	mu      sync.Mutex
	query   string
	tree    *btree.BTree
	nextSeq int
	all     []Candidate // every candidate seen, for full rescoring on query edit
	closed  bool
}

// New creates a picker retaining at most topN best-scoring candidates.
func New(kind Kind, topN int) *Picker {
	return &Picker{
		kind: kind,
		topN: topN,
		tree: btree.New(32),
	}
}

// Feed reads candidates from src until it closes or ctx is cancelled,
// scoring and inserting each one. It is meant to run in its own
// goroutine; the enumerator producing src is never interrupted by a
// query edit, only by ctx cancellation (picker close).
func (p *Picker) Feed(ctx context.Context, src <-chan Candidate) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-src:
			if !ok {
				return
			}
			p.insert(c)
		}
	}
}

func (p *Picker) insert(c Candidate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.all = append(p.all, c)
	p.insertScored(c, Score(p.query, c.Text))
}

// insertScored adds c to the bounded tree, evicting the worst entry if
// the tree is already at capacity and c scores better. Must be called
// with p.mu held.
func (p *Picker) insertScored(c Candidate, score int) {
	if score < 0 {
		return // no match at all against the current query
	}
	it := &item{score: score, seq: p.nextSeq, cand: c}
	p.nextSeq++

	if p.tree.Len() < p.topN {
		p.tree.ReplaceOrInsert(it)
		return
	}
	worst := p.tree.Max().(*item)
	if it.Less(worst) {
		p.tree.Delete(worst)
		p.tree.ReplaceOrInsert(it)
	}
}

// SetQuery updates the active query and rescans every retained candidate
// in place; the enumerator feeding Feed keeps running unaffected.
func (p *Picker) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
	p.tree = btree.New(32)
	p.nextSeq = 0
	for _, c := range p.all {
		p.insertScored(c, Score(query, c.Text))
	}
}

// Results returns the current top-N candidates, best match first.
func (p *Picker) Results() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Candidate, 0, p.tree.Len())
	p.tree.Ascend(func(it btree.Item) bool {
		out = append(out, it.(*item).cand)
		return true
	})
	return out
}

// Close stops accepting further insertions; Feed goroutines should also
// observe ctx cancellation separately.
func (p *Picker) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Score computes a subsequence-based fuzzy match score of query against
// candidate, or -1 if query is not a subsequence of candidate at all.
// Higher is better; an empty query scores every candidate equally so the
// picker shows the full pool in enumeration order.
func Score(query, candidate string) int {
	if query == "" {
		return 0
	}
	q := []rune(strings.ToLower(query))
	c := []rune(strings.ToLower(candidate))

	score := 0
	qi := 0
	consecutive := 0
	for ci := 0; ci < len(c) && qi < len(q); ci++ {
		if c[ci] == q[qi] {
			consecutive++
			score += 2 + consecutive // reward runs of consecutive matches
			if ci == 0 || isWordBoundary(c[ci-1]) {
				score += 5 // reward matches at a word start
			}
			qi++
		} else {
			consecutive = 0
		}
	}
	if qi < len(q) {
		return -1 // query was not a subsequence of candidate
	}
	score -= len(c) - len(q) // prefer tighter overall matches
	return score
}

func isWordBoundary(r rune) bool {
	return r == '/' || r == '_' || r == '-' || r == '.' || r == ' '
}

// SortByScoreDesc is exposed for tests that want to verify Score directly
// against a batch of candidates without going through a Picker.
func SortByScoreDesc(query string, candidates []Candidate) []Candidate {
	type scored struct {
		c Candidate
		s int
	}
	tmp := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		s := Score(query, c.Text)
		if s >= 0 {
			tmp = append(tmp, scored{c, s})
		}
	}
	sort.SliceStable(tmp, func(i, j int) bool { return tmp[i].s > tmp[j].s })
	out := make([]Candidate, len(tmp))
	for i, s := range tmp {
		out[i] = s.c
	}
	return out
}
