// Package control provides drivers that move a spring's target over time.
//
// A driver implements [dynamo.Driver]; the simulator asks it for the input
// (the target position) before every step:
//
//   - [Keyframes]: the target jumps to new values at fixed times
//   - [Tween]: the target glides along an eased path
//   - [Manual]: the target is set from outside, e.g. by a pointer
package control
