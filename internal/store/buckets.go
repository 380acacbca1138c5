package store

// Bucket names for the four column families spec.md §3 requires inside
// one embedded bbolt database per node. Keep these in sync with
// SPEC_FULL.md's key-space layout table — they are part of the on-disk
// format.
var (
	bucketLogs   = []byte("logs")
	bucketMeta   = []byte("meta")
	bucketSMData = []byte("sm_data")
	bucketSMMeta = []byte("sm_meta")
)

// Fixed key names inside the meta and sm_meta buckets (spec.md §4.3/§4.4).
const (
	metaKeyCurrentTerm    = "CurrentTerm"
	metaKeyLastVoteTerm   = "LastVoteTerm"
	metaKeyLastVoteCand   = "LastVoteCand"
	metaKeyLastPurgedLog  = "last_purged_log_id"
	metaKeySnapshotIndex  = "snapshot_index"
	metaKeySnapshotRecord = "snapshot"

	smMetaKeyLastApplied    = "last_applied_log"
	smMetaKeyLastMembership = "last_membership"
)
