package session

import "context"

// Device is the hand as seen by the session core. pkg/hand provides the
// production implementation; tests use fakes.
//
// ReadBulk reads one metric group for every joint in a single bus exchange
// and must return exactly len(Joints()) values. ReadJoint reads a single
// joint's channel and is the fallback when bulk reads fail or the device
// does not support them.
type Device interface {
	Joints() []string
	SupportsBulkRead() bool
	ReadBulk(ctx context.Context, m Metric) ([]float64, error)
	ReadJoint(ctx context.Context, m Metric, joint int) (float64, error)
}
