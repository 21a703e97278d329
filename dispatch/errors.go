package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// RegistrationError reports an invalid algorithm registration, including
// duplicate canonical names and malformed graph or attribute specs.
type RegistrationError struct {
	Algorithm string
	Err       error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("cannot register algorithm %q: %v", e.Algorithm, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// ArgumentError reports a per-call failure to resolve an algorithm's
// arguments against its declared specs.
type ArgumentError struct {
	Algorithm string
	Arg       string
	Reason    string
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return fmt.Sprintf("%s(): %s", e.Algorithm, e.Reason)
	}
	return fmt.Sprintf("%s(): %s: %q", e.Algorithm, e.Reason, e.Arg)
}

// BackendMismatchError reports that the resolved graph arguments of one
// call do not agree on a single owning backend.
type BackendMismatchError struct {
	Algorithm string
	Backends  []string
}

func (e *BackendMismatchError) Error() string {
	return fmt.Sprintf("%s(): graphs must all be from the same backend, found %s",
		e.Algorithm, strings.Join(e.Backends, ", "))
}

// NotImplementedError reports that a loaded backend does not provide the
// requested algorithm. Expected marks the soft flavor raised by the
// conversion-forcing mode for non-reference backends; it flags a known
// coverage gap rather than a failure of the run.
type NotImplementedError struct {
	Algorithm string
	Backend   string
	Expected  bool
}

func (e *NotImplementedError) Error() string {
	if e.Backend == ReferenceBackend {
		return fmt.Sprintf("%q not found in reference backend %q", e.Algorithm, e.Backend)
	}
	return fmt.Sprintf("%q not implemented by backend %q", e.Algorithm, e.Backend)
}

// IsExpectedGap reports whether err marks an algorithm a non-reference
// backend is known not to implement. Test drivers replaying the native
// suite against a backend should skip, not fail, on these.
func IsExpectedGap(err error) bool {
	var nie *NotImplementedError
	return errors.As(err, &nie) && nie.Expected
}
