// Package source describes where pseudo trees come from (files, fs.FS entries
// or URLs) and the Loader contract that fetches them. Concrete loaders live
// under internal/loader; the root pseudo package exposes constructors.
package source
