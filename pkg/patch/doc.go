// Package patch parses and applies line-oriented multi-file patches in the
// "*** Begin Patch" format.
//
// The package deliberately refuses anything it cannot prove correct: hunks
// must match their context exactly once at or after the position left by the
// previous hunk, and every declared path must resolve inside the workspace
// root. Patches can be applied to the OS filesystem or to an in-memory
// document map, which makes the engine easy to embed in editors, agent tools
// and tests.
package patch
