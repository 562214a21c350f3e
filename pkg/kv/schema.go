package kv

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/benmeehan/location-store/pkg/errs"
	bolt "go.etcd.io/bbolt"
)

// SchemaVersion is the layout version of the records written by this build.
// Stores stamped with a different major version are refused.
const SchemaVersion = "1.0.0"

var (
	metaBucket       = []byte("meta")
	schemaVersionKey = []byte("schema_version")
)

// IsReservedTable reports whether name collides with a bucket the store keeps for itself.
func IsReservedTable(name string) bool {
	return name == string(metaBucket)
}

// checkSchema stamps a new store with SchemaVersion, or verifies that an existing
// store is compatible with it. Older compatible stamps are upgraded in place.
func checkSchema(tx *bolt.Tx) error {
	current := semver.MustParse(SchemaVersion)

	meta, err := tx.CreateBucketIfNotExists(metaBucket)
	if err != nil {
		return errs.Store("create meta bucket", err)
	}

	raw := meta.Get(schemaVersionKey)
	if raw == nil {
		return stampSchema(meta, current)
	}

	stored, err := semver.NewVersion(string(raw))
	if err != nil {
		return fmt.Errorf("%w: unreadable stamp %q: %v", errs.ErrSchemaVersion, raw, err)
	}

	compatible, err := semver.NewConstraint(fmt.Sprintf("^%d.0.0", current.Major()))
	if err != nil {
		return err
	}
	if stored.Major() != current.Major() || !compatible.Check(stored) {
		return fmt.Errorf("%w: store is %s, this build writes %s", errs.ErrSchemaVersion, stored, current)
	}

	if stored.LessThan(current) {
		return stampSchema(meta, current)
	}
	return nil
}

func stampSchema(meta *bolt.Bucket, v *semver.Version) error {
	if err := meta.Put(schemaVersionKey, []byte(v.String())); err != nil {
		return errs.Store("stamp schema version", err)
	}
	return nil
}
