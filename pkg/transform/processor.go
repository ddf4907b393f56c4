package transform

import (
	"errors"
	"fmt"
)

// Processor runs a fixed sequence of transforms in order, and reverses them in the opposite order.
type Processor struct {
	// Applied 0..N when preparing output, N..0 when parsing input.
	transforms []Transform
}

// NewProcessor creates a processor with a defined pipeline.
// Requires at least one transform. Use NewNoOpTransform() for an explicitly empty pipeline.
func NewProcessor(transforms ...Transform) (*Processor, error) {
	if len(transforms) == 0 {
		return nil, errors.New("processor requires at least one transform; use NewNoOpTransform() for an empty pipeline")
	}
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("processor: transform %d is nil", i)
		}
	}

	s := make([]Transform, len(transforms))
	copy(s, transforms)

	return &Processor{
		transforms: s,
	}, nil
}

// Apply runs the pipeline in forward order (0..N).
func (p *Processor) Apply(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i, t := range p.transforms {
		current, err = t.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("apply: transform %d (%T) failed: %w", i, t, err)
		}
	}
	return current, nil
}

// Reverse runs the pipeline in reverse order (N..0).
func (p *Processor) Reverse(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i := len(p.transforms) - 1; i >= 0; i-- {
		t := p.transforms[i]
		current, err = t.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reverse: transform %d (%T) failed: %w", i, t, err)
		}
	}
	return current, nil
}

// Len returns the number of stages in the pipeline.
func (p *Processor) Len() int {
	return len(p.transforms)
}
