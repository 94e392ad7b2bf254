package chain

import "fmt"

// Iterator walks a fixed [start, end] height range of the active chain one
// block at a time. It is lazy (each Next fetches exactly one index),
// finite, and restartable via Reset.
type Iterator struct {
	chain        *Chain
	start, end   int32
	reverse      bool
	cur          int32
	exhausted    bool
}

// Iterate returns a forward iterator (ascending height) over [start, end].
// Both bounds must be on the active chain and start must not exceed end.
func (c *Chain) Iterate(start, end int32) (*Iterator, error) {
	return c.newIterator(start, end, false)
}

// IterateReverse returns a reverse iterator (descending height) over
// [start, end], yielding end first and start last.
func (c *Chain) IterateReverse(start, end int32) (*Iterator, error) {
	return c.newIterator(start, end, true)
}

func (c *Chain) newIterator(start, end int32, reverse bool) (*Iterator, error) {
	if start > end {
		return nil, fmt.Errorf("chain: iterate requires start <= end, got start=%d end=%d", start, end)
	}

	for _, h := range []int32{start, end} {
		idx, err := c.Get(h)
		if err != nil {
			return nil, err
		}
		if idx == nil {
			return nil, fmt.Errorf("chain: iterate bound at height %d is not on the active chain", h)
		}
	}

	it := &Iterator{chain: c, start: start, end: end, reverse: reverse}
	it.Reset()
	return it, nil
}

// Reset rewinds the iterator back to its starting position.
func (it *Iterator) Reset() {
	it.exhausted = false
	if it.reverse {
		it.cur = it.end
	} else {
		it.cur = it.start
	}
}

// Next returns the next block index in iteration order, or ok=false once
// the range is exhausted.
func (it *Iterator) Next() (idx *BlockIndex, ok bool, err error) {
	if it.exhausted {
		return nil, false, nil
	}

	idx, err = it.chain.Get(it.cur)
	if err != nil {
		return nil, false, err
	}
	if idx == nil {
		it.exhausted = true
		return nil, false, nil
	}

	if it.reverse {
		if it.cur == it.start {
			it.exhausted = true
		} else {
			it.cur--
		}
	} else {
		if it.cur == it.end {
			it.exhausted = true
		} else {
			it.cur++
		}
	}

	return idx, true, nil
}
