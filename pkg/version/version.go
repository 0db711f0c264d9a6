// Package version records the library release.
package version

// Version is the library version, bumped on release. It is intended to
// be overridden at build time:
// go build -ldflags="-X github.com/nimburion/serde/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"
