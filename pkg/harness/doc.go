// Package harness drives the eager (observe) and lazy (proxy) engines from
// YAML scenarios and records what they do.
//
// A scenario declares a document, a set of watched paths and a list of
// writes. Run applies it to one Engine and returns a Trace: every step, every
// re-run of a watched path and, depending on the engine, every notification
// or trigger it produced. Traces are compared against golden files in tests,
// and Trace.Digest fingerprints only the re-runs so the two engines can be
// compared with each other.
package harness
