// Package serve runs the docs server for a publish root.
//
// A Server moves through a fixed set of states:
//
//	Idle -> ResolvingVersion -> Validating -> Serving -> ShuttingDown -> Stopped
//	                                 \-> Fatal
//
// Resolution reads versions.json and falls back to the latest alias when the
// manifest is unusable. Validation refuses to open a listener when the
// resolved version directory is missing. While serving, a one-shot timer may
// open the user's browser on the resolved version.
package serve
