package lite

import (
	"fmt"

	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
)

type screen struct {
	stream []byte
	init   int
	cur    int
}

func newScreen(key []byte, offset ...int) (*screen, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: cannot use empty key", xrc.ErrMissingInput)
	}
	s := &screen{
		stream: xrc.DeriveKeystream(key),
	}
	if len(offset) > 0 {
		if offset[0] < 0 || offset[0] >= len(key) {
			return nil, fmt.Errorf("%w: offset %d out of range for provided key of len %d", xrc.ErrInvalidArgument, offset[0], len(key))
		}
		s.init = offset[0]
		s.cur = s.init
	}
	return s, nil
}

func (s *screen) apply(buf []byte) {
	for i := range buf {
		buf[i] ^= s.stream[s.cur]
		s.cur++
		if s.cur == len(s.stream) {
			s.cur = 0
		}
	}
}

func (s *screen) reset() {
	s.cur = s.init
}

// Screen returns a screened copy of data. Calling it again with the same key and offset restores the original.
func Screen(data, key []byte, offset ...int) ([]byte, error) {
	s, err := newScreen(key, offset...)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	s.apply(out)
	return out, nil
}
