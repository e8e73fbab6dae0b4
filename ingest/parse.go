// Package ingest replays decoded sensor lines into the labeling service.
package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andareed/siftly-labeler/labelapi"
)

// TimestampLayout is the layout sensor bridges write.
const TimestampLayout = "2006-01-02 15:04:05"

const fieldCount = 8

var ErrFieldCount = errors.New("expected 8 ';' separated fields")

// ParseLine decodes "ts;ax;ay;az;gx;gy;gz;pulse".
func ParseLine(line string) (labelapi.Reading, error) {
	parts := strings.Split(strings.TrimSpace(line), ";")
	if len(parts) != fieldCount {
		return labelapi.Reading{}, fmt.Errorf("%w, got %d", ErrFieldCount, len(parts))
	}
	ts := strings.TrimSpace(parts[0])
	if _, err := time.Parse(TimestampLayout, ts); err != nil {
		return labelapi.Reading{}, fmt.Errorf("timestamp %q: %w", ts, err)
	}

	var vals [fieldCount - 1]float64
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return labelapi.Reading{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		vals[i] = v
	}
	return labelapi.Reading{
		Timestamp: ts,
		AX:        vals[0], AY: vals[1], AZ: vals[2],
		GX: vals[3], GY: vals[4], GZ: vals[5],
		Pulse: vals[6],
	}, nil
}
