// Package labelapi is the wire contract of the labeling service and a
// client for it.
package labelapi

import "github.com/andareed/siftly-labeler/samples"

// Record is a stored sample as the service returns it. Label is nil while
// the sample is unlabeled.
type Record struct {
	ID        int64   `json:"id"`
	Timestamp string  `json:"timestamp"`
	AX        float64 `json:"ax"`
	AY        float64 `json:"ay"`
	AZ        float64 `json:"az"`
	GX        float64 `json:"gx"`
	GY        float64 `json:"gy"`
	GZ        float64 `json:"gz"`
	Pulse     float64 `json:"pulse"`
	Label     *int    `json:"label"`
}

// Sample drops the label; labels are never reflected back client side.
func (r Record) Sample() samples.Sample {
	return samples.Sample{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		AX:        r.AX,
		AY:        r.AY,
		AZ:        r.AZ,
		GX:        r.GX,
		GY:        r.GY,
		GZ:        r.GZ,
		Pulse:     r.Pulse,
	}
}

// Reading is one raw measurement posted to /ingest.
type Reading struct {
	Timestamp string  `json:"timestamp"`
	AX        float64 `json:"ax"`
	AY        float64 `json:"ay"`
	AZ        float64 `json:"az"`
	GX        float64 `json:"gx"`
	GY        float64 `json:"gy"`
	GZ        float64 `json:"gz"`
	Pulse     float64 `json:"pulse"`
}

type UnlabeledResponse struct {
	SensorData []Record `json:"sensor_data"`
}

type ExportResponse struct {
	AllData []Record `json:"all_data"`
}

type LabelRequest struct {
	ID    int64 `json:"id"`
	Label int   `json:"label"`
}

type BatchLabelRequest struct {
	IDs   []int64 `json:"ids"`
	Label int     `json:"label"`
}

type StatusResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

const (
	PathIngest    = "/ingest"
	PathUnlabeled = "/get_unlabeled"
	PathLabel     = "/label_data"
	PathBatch     = "/batch_label"
	PathExport    = "/export"
	PathHealth    = "/healthz"
	PathMetrics   = "/metrics"
)

// Sensor range limits accepted by /ingest.
const (
	RawMin   = -32768
	RawMax   = 32767
	PulseMin = 0.0
	PulseMax = 300.0
)

// Validate reports whether every channel is inside its accepted range.
func (r Reading) Validate() bool {
	for _, v := range []float64{r.AX, r.AY, r.AZ, r.GX, r.GY, r.GZ} {
		if v < RawMin || v > RawMax {
			return false
		}
	}
	return r.Pulse >= PulseMin && r.Pulse <= PulseMax
}
