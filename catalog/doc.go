// Package catalog is the mocked lookup backend: a fixed seven-item catalog
// searched by case-insensitive substring, served through a provider that
// simulates latency and induced failures.
package catalog
