// Package present turns a [sprite.View] into something visible.
//
// [StyleFor] describes the view as an absolutely positioned box whose
// background is the scaled sheet, the way a browser would show it.
// [Painter] rasterizes the same view into a [draw.Image] by scaling the
// current cell of a decoded sheet into the fitted bounds.
package present
