// Package roster loads the initial device population from a CSV file.
//
// The roster is the local bulk source of simulated devices: one row per
// device, serialized state parsed once at load time, textual booleans
// coerced. Loaded devices seed the registry at startup, normally all
// unconnected, and are announced to the server in bulk after the first
// successful connect.
package roster
