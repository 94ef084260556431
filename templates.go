package pseudo

import (
	"io/fs"

	"github.com/goliatone/go-pseudo/pkg/targets/cpp"
)

// EmbeddedTargets exposes the built-in C++ target document and preamble so
// callers can copy and extend them, then load the result with
// cpp.WithDocument.
func EmbeddedTargets() fs.FS {
	return cpp.Files()
}
