// Package version holds build-time identification, overridden via
// -ldflags at release build time.
package version

var (
	name    = "ft8decode"
	version = "dev"
	commit  = "none"
)

func Name() string    { return name }
func Version() string { return version }
func Commit() string  { return commit }
