package terse

// An AbsoluteMatch is like a Match, but it stores indexes into the byte
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

// A Searcher is the source of matches for a Parser. It only looks for
// matches at one position at a time.
type Searcher interface {
	// Search looks for matches at pos and appends them to dst.
	// In each match, Start and End must fall within the interval [min,max),
	// and Match < Start < End.
	Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of bytes from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser goes from start to end, taking the longest match at each
// position. With Lazy set, it checks the next position too, and emits a
// literal instead if that gives a longer match.
type GreedyParser struct {
	// MinLength is the shortest match worth using. The default is 4; a
	// back-reference token costs 3 bytes.
	MinLength int

	Lazy bool

	matchCache []AbsoluteMatch
}

func (p *GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	if p.MinLength == 0 {
		p.MinLength = 4
	}
	matches := p.matchCache[:0]
	nextEmit := start

	for s := start; s < end; {
		matches = src.Search(matches[:0], s, nextEmit, end)
		m := longestMatch(matches)
		if m.End-m.Start < p.MinLength {
			s++
			continue
		}

		if p.Lazy && m.End < end {
			matches = src.Search(matches[:0], s+1, nextEmit, end)
			next := longestMatch(matches)
			if next.End-next.Start > m.End-m.Start {
				s++
				continue
			}
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.End - m.Start,
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	p.matchCache = matches[:0]
	return dst
}

func longestMatch(matches []AbsoluteMatch) AbsoluteMatch {
	var longest AbsoluteMatch

	for _, m := range matches {
		if m.End-m.Start > longest.End-longest.Start {
			longest = m
		}
	}

	return longest
}
