package gateway

import "fmt"

// RemoteFault is a transport error or a non-2xx response from the remote API.
// The upstream code, reason and message are preserved for diagnosis.
type RemoteFault struct {
	Op      string
	Status  int
	Code    int
	Reason  string
	Message string
	Err     error
}

func (e *RemoteFault) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
	}
	if e.Reason != "" || e.Message != "" {
		return fmt.Sprintf("remote %s failed (status=%d code=%d): %s: %s",
			e.Op, e.Status, e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("remote %s failed (status=%d)", e.Op, e.Status)
}

func (e *RemoteFault) Unwrap() error { return e.Err }
