// Package samples holds the loaded window of sensor samples and the load
// lifecycle that replaces it.
package samples

import (
	"errors"
	"fmt"
)

// Sample is one timestamped reading. It is never mutated after load.
type Sample struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	AX        float64 `json:"ax"`
	AY        float64 `json:"ay"`
	AZ        float64 `json:"az"`
	GX        float64 `json:"gx"`
	GY        float64 `json:"gy"`
	GZ        float64 `json:"gz"`
	Pulse     float64 `json:"pulse"`
}

type Channel int

const (
	ChannelAX Channel = iota
	ChannelAY
	ChannelAZ
	ChannelGX
	ChannelGY
	ChannelGZ
	ChannelPulse
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelAX, ChannelAY, ChannelAZ, ChannelGX, ChannelGY, ChannelGZ, ChannelPulse}

func (c Channel) String() string {
	switch c {
	case ChannelAX:
		return "ax"
	case ChannelAY:
		return "ay"
	case ChannelAZ:
		return "az"
	case ChannelGX:
		return "gx"
	case ChannelGY:
		return "gy"
	case ChannelGZ:
		return "gz"
	case ChannelPulse:
		return "pulse"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Value returns the reading for c.
func (c Channel) Value(s Sample) float64 {
	switch c {
	case ChannelAX:
		return s.AX
	case ChannelAY:
		return s.AY
	case ChannelAZ:
		return s.AZ
	case ChannelGX:
		return s.GX
	case ChannelGY:
		return s.GY
	case ChannelGZ:
		return s.GZ
	case ChannelPulse:
		return s.Pulse
	}
	return 0
}

var ErrDuplicateID = errors.New("duplicate sample id")

// Collection is the ordered, immutable window of samples for one load.
type Collection struct {
	samples []Sample
	index   map[int64]int
}

// NewCollection copies in and indexes it by id.
func NewCollection(in []Sample) (Collection, error) {
	c := Collection{
		samples: make([]Sample, len(in)),
		index:   make(map[int64]int, len(in)),
	}
	copy(c.samples, in)
	for i, s := range c.samples {
		if _, ok := c.index[s.ID]; ok {
			return Collection{}, fmt.Errorf("%w: %d", ErrDuplicateID, s.ID)
		}
		c.index[s.ID] = i
	}
	return c, nil
}

func (c Collection) Len() int { return len(c.samples) }

func (c Collection) Empty() bool { return len(c.samples) == 0 }

// Samples returns a copy in load order.
func (c Collection) Samples() []Sample {
	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// At returns the sample at load position i.
func (c Collection) At(i int) Sample { return c.samples[i] }

// IDs returns every identifier in load order.
func (c Collection) IDs() []int64 {
	ids := make([]int64, len(c.samples))
	for i, s := range c.samples {
		ids[i] = s.ID
	}
	return ids
}

func (c Collection) Contains(id int64) bool {
	_, ok := c.index[id]
	return ok
}

func (c Collection) Get(id int64) (Sample, bool) {
	i, ok := c.index[id]
	if !ok {
		return Sample{}, false
	}
	return c.samples[i], true
}
