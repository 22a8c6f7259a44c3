package resolve

// Resolution error caching bits. NotFound and TransferError compose
// independently.
const (
	CacheDisabled      = 0
	CacheNotFound      = 1 << 0
	CacheTransferError = 1 << 1
)

// Update policy values for snapshot artifacts. The empty string leaves
// the policy unset so the engine default applies.
const (
	UpdatePolicyAlways = "always"
	UpdatePolicyNever  = "never"
)

// Checksum policy values copied verbatim from the request.
const (
	ChecksumPolicyFail   = "fail"
	ChecksumPolicyWarn   = "warn"
	ChecksumPolicyIgnore = "ignore"
)

// ResolutionErrorPolicy controls whether "not found" and "transfer
// error" outcomes are cached to avoid repeated remote lookups.
//
// NotFound is the policy applied to missing-artifact outcomes and
// always includes the CacheNotFound bit, whatever the base policy
// says; it is strictly more permissive for "not found" caching.
type ResolutionErrorPolicy struct {
	Base     int
	NotFound int
}

// ComposeResolutionErrorPolicy derives the error caching policy from
// the request's cache toggles.
func ComposeResolutionErrorPolicy(cacheNotFound, cacheTransferError bool) ResolutionErrorPolicy {
	policy := CacheDisabled
	if cacheNotFound {
		policy |= CacheNotFound
	}
	if cacheTransferError {
		policy |= CacheTransferError
	}
	return ResolutionErrorPolicy{
		Base:     policy,
		NotFound: policy | CacheNotFound,
	}
}

// UpdatePolicy derives the snapshot update policy from the request's
// flags. The flags are expected to be mutually exclusive; when both
// are set, "never" wins. Returns "" when neither is set.
func UpdatePolicy(noSnapshotUpdates, updateSnapshots bool) string {
	if noSnapshotUpdates {
		return UpdatePolicyNever
	}
	if updateSnapshots {
		return UpdatePolicyAlways
	}
	return ""
}
