// Package geom maps survey-local 2D geometry into world space.
//
// Survey exports draw plans with the y axis pointing down, so every local
// point is reflected across the x axis on its way to world space. Floor
// elevation is never folded into these points; plans stay per-floor 2D slices
// and the vertical level is carried as a separate scalar.
//
// All functions are pure and safe for concurrent use. Points are
// [orb.Point] values from github.com/paulmach/orb so that the planar helpers
// in orb/planar can be used directly on resolved geometry.
package geom
