// internal/repourl/match.go
package repourl

import (
	"regexp"
	"strings"
)

const schemeSeparator = "://"

// leadingWWW drops the first dot-terminated label when it begins with "www".
var leadingWWW = regexp.MustCompile(`^www.*?\.`)

// splitDomain returns the scheme (including "://", empty when absent) and the
// authority of rawURL with any leading www label removed.
func splitDomain(rawURL string) (scheme, authority string) {
	authority = rawURL
	if i := strings.Index(authority, schemeSeparator); i != -1 {
		scheme = authority[:i+len(schemeSeparator)]
		authority = authority[i+len(schemeSeparator):]
	}
	if i := strings.IndexByte(authority, '/'); i != -1 {
		authority = authority[:i]
	}
	authority = leadingWWW.ReplaceAllString(authority, "")
	return scheme, authority
}

// MatchesHost reports whether the repository at repoURL lives on host.
// The comparison is case-insensitive. A host given without a scheme
// matches on authority alone.
func MatchesHost(repoURL, host string) bool {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return false
	}

	repoScheme, repoAuthority := splitDomain(repoURL)
	hostScheme, hostAuthority := splitDomain(host)
	if !strings.EqualFold(repoAuthority, hostAuthority) {
		return false
	}
	return hostScheme == "" || strings.EqualFold(repoScheme, hostScheme)
}
