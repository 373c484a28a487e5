// Package survey holds the in-memory model of a floor-plan survey.
//
// A survey is a tree: a [Building] has ordered [Floor]s, each floor has one
// or more [Design]s (usually one floor plan, plus extra designs for
// outbuildings), and each design carries flat lists of [Area]s, [Line]s and
// [FixtureObject]s that reference each other by string identifier.
//
// Coordinates are in the survey's local 2D frame, where the y axis points the
// opposite way to world space. Package geom applies the flip.
//
// The model is pure data. It is built once by a reader (see package
// roomscan or the JSON codec in package io) and is never mutated afterwards;
// resolution only reads it. Cross-references are resolved through an
// [Index], which is built once per design.
package survey
