// Package viz is the terminal preview for motionkit, built on Bubble Tea.
//
// [Model] has three tabs: a 2D spring chasing a target moved with the arrow
// keys, an easing curve with an animated ball, and a scrolling document with
// per-section progress. [AudioModel] draws the analyzer bands.
//
// Drawing happens on a braille [Canvas], where each terminal cell holds a
// 2x4 dot grid. Pressing g records the canvas to a GIF.
package viz
