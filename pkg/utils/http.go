package utils

import "io"

// DrainAndClose exhausts and closes an HTTP response body. Reading to EOF
// before closing lets the transport keep the underlying connection for reuse.
func DrainAndClose(rc io.ReadCloser) error {
	if rc == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, rc)
	return rc.Close()
}
