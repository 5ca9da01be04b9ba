// Package terrain loads, mutates, and writes back Gaea .terrain project
// files. A .terrain file is a large JSON document; this package only rewrites
// the handful of fields the automation touches (automation variables, their
// node bindings, and save destinations) and leaves every other byte of the
// document exactly as it was on disk.
package terrain
