// internal/repourl/url.go
package repourl

import (
	"net/url"
	"strings"

	custom_errors "scm-collector/internal/errors"
)

func isSupportedProtocol(u string) bool {
	return strings.HasPrefix(u, "ssh:") ||
		strings.HasPrefix(u, "git+ssh:") ||
		strings.HasPrefix(u, "git:") ||
		strings.HasPrefix(u, "http:") ||
		strings.HasPrefix(u, "git+https:") ||
		strings.HasPrefix(u, "https:")
}

// Parse normalizes repository urls, including scp-like syntax (git@host:owner/repo)
// and bare "host/owner/repo" forms.
func Parse(rawURL string) (*url.URL, error) {
	switch {
	case isSupportedProtocol(rawURL):
	case strings.HasPrefix(rawURL, "git@") && strings.ContainsRune(rawURL, ':'):
		rawURL = "ssh://" + strings.Replace(rawURL, ":", "/", 1)
	default:
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "git+https":
		u.Scheme = "https"
	case "git+ssh":
		u.Scheme = "ssh"
	}

	if u.Scheme == "ssh" {
		u.Host = strings.TrimSuffix(u.Host, ":"+u.Port())
	}
	return u, nil
}

// OwnerRepo extracts owner and repository name from a repository url.
func OwnerRepo(rawURL string) (owner, repo string, err error) {
	u, err := Parse(rawURL)
	if err != nil {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: rawURL}
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &custom_errors.ErrInvalidRepoURL{URL: rawURL}
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	return owner, repo, nil
}
