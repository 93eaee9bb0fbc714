// Package naming maps image filenames to classes and output paths.
//
// Classification is by case-insensitive filename prefix against the
// configured class table ("cat.1.jpg" -> cats). Output paths mirror the
// class folder layout: <tree>/<class>/<basename>. [CollisionGuard] tracks
// every planned output path within a run so two inputs can never be routed
// to the same destination.
package naming
