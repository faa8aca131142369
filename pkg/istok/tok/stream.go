package tok

import "iter"

// Seq is a lazy sequence of tokens, as produced and consumed by every
// pipeline stage.
type Seq = iter.Seq[Token]

// stream wraps a token sequence with bounded lookahead and pushback.
// Each pipeline stage owns exactly one stream over its input.
type stream struct {
	next func() (Token, bool)
	stop func()
	buf  []Token
	done bool
}

func newStream(seq Seq) *stream {
	next, stop := iter.Pull(seq)
	return &stream{next: next, stop: stop}
}

// Next returns the next token from the stream.
func (s *stream) Next() (Token, bool) {
	if len(s.buf) > 0 {
		t := s.buf[0]
		s.buf = s.buf[1:]
		return t, true
	}
	if s.done {
		return Token{}, false
	}
	t, ok := s.next()
	if !ok {
		s.done = true
	}
	return t, ok
}

// Peek returns the token i positions ahead without consuming it.
func (s *stream) Peek(i int) (Token, bool) {
	for len(s.buf) <= i {
		if s.done {
			return Token{}, false
		}
		t, ok := s.next()
		if !ok {
			s.done = true
			return Token{}, false
		}
		s.buf = append(s.buf, t)
	}
	return s.buf[i], true
}

// Push puts a token back in front of the stream.
func (s *stream) Push(t Token) {
	s.buf = append([]Token{t}, s.buf...)
}

// Stop releases the underlying sequence. It is safe to call more than
// once.
func (s *stream) Stop() {
	s.stop()
}
