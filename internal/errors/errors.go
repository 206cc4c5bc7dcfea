// internal/errors/errors.go
package errors

import "fmt"

// ErrInvalidRepoURL is returned when a tracked repository URL cannot be split into 'owner/name'.
type ErrInvalidRepoURL struct {
	URL string
}

func (e *ErrInvalidRepoURL) Error() string {
	return fmt.Sprintf("invalid repository url: %q, expected '<host>/owner/name'", e.URL)
}

// ErrHostConfigMismatch is returned when the parallel SCM host, username and password lists differ in length.
type ErrHostConfigMismatch struct {
	Hosts     int
	Usernames int
	Passwords int
}

func (e *ErrHostConfigMismatch) Error() string {
	return fmt.Sprintf("SCM host configuration mismatch: %d hosts, %d usernames, %d passwords",
		e.Hosts, e.Usernames, e.Passwords)
}

// ErrCredentialDecode is returned when a configured password is not valid base64.
type ErrCredentialDecode struct {
	Host string
	Err  error
}

func (e *ErrCredentialDecode) Error() string {
	return fmt.Sprintf("failed to decode credential for host %q: %v", e.Host, e.Err)
}

func (e *ErrCredentialDecode) Unwrap() error {
	return e.Err
}
