package nats

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// Bucket names. Each record family gets its own KV bucket so listing one
// family never scans another's keys.
const (
	BucketPlans  = "plans"
	BucketAddons = "addons"
	BucketSLAs   = "slas"
	BucketDrafts = "drafts"
)

// EnsureBucket creates the KV bucket if it does not exist yet and returns it.
func EnsureBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	return js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  name,
		Storage: jetstream.FileStorage,
		History: 1,
	})
}
