// Package build shells out to the external Gaea Swarm executable to build a
// terrain file. The executable serializes its own licensing and session
// state, so invocations are strictly blocking: one build must exit before the
// next begins.
package build
