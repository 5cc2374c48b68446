package storage

import "strings"

// RewritePublicURL swaps the internal storage base for an externally
// reachable one. Some topologies route object storage under a host that is
// only resolvable inside the cluster; when a public override is configured
// the internal prefix is replaced literally, otherwise the URL passes through
// unchanged. Pure string transform, no environment reads.
func RewritePublicURL(rawURL, internalBase, publicBase string) string {
	internalBase = strings.TrimRight(strings.TrimSpace(internalBase), "/")
	publicBase = strings.TrimRight(strings.TrimSpace(publicBase), "/")
	if internalBase == "" || publicBase == "" || internalBase == publicBase {
		return rawURL
	}
	return strings.Replace(rawURL, internalBase, publicBase, 1)
}
