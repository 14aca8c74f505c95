package vault

import "errors"

// ErrDirectoryUnavailable wraps I/O failures reading or writing the
// vault's transcript and report directories. Fatal for the affected
// file or run only, never for the process.
var ErrDirectoryUnavailable = errors.New("directory unavailable")
