// Package viewport derives continuous scroll progress values from element
// geometry.
//
// Elements are described by their bounding rectangle relative to the top of
// the viewport. A Tracker measures every registered element; a Sampler
// throttles those measurements to at most one per animation frame and only
// after a scroll or resize has invalidated the last result.
package viewport
