package holders

import "errors"

// ErrEnumerationFailed is returned when the initial holder enumeration
// failed after exhausting the endpoint pool. Callers must treat holder
// data as unavailable, not as zero holders.
var ErrEnumerationFailed = errors.New("holder enumeration failed")
