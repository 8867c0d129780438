// Package version reports build information.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/searchlab/version.Version=1.0.0" ./cmd/searchlab
//
// Unset values fall back to the VCS stamp the Go toolchain embeds.
package version
