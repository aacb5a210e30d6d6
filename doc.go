// Package rasterlayer implements the pixel surface behind a raster layer of
// an image editor.
//
// # Overview
//
// A Surface owns a packed pixel buffer placed somewhere in layer space. Tools
// draw through a Context, which reports every modified rectangle to a damage
// tracker so the host only repaints what changed. Edits bracketed by
// BeginEdit and CommitEdit produce undo records sized to the damaged area
// rather than to the whole buffer.
//
// # Coordinates
//
// Layer coordinates are shared by all layers of a document. The buffer's
// pixel (0, 0) sits at Location() in layer space. When painting needs room
// outside the buffer, the surface grows: existing pixels keep their layer
// position, the buffer origin moves, and every outstanding undo record of
// the surface is translated so that it still addresses the same pixels.
//
//	s, _ := rasterlayer.NewSurface(64, 64, rasterlayer.WithHistory(h))
//	s.BeginEdit("fill")
//	dc, _ := s.Context()
//	dc.Fill(image.Rect(8, 8, 24, 24), color.Black)
//	s.CommitEdit()
//
// # Hibernation
//
// With a hibernate.Queue attached, an idle surface may have its buffer moved
// to a store. Operations that need the pixels wake the surface first; Paint
// returns false instead of blocking.
//
// # Concurrency
//
// A Surface is safe for concurrent use, but edits are expected to come from
// a single editing goroutine. The hibernation worker only ever swaps whole
// buffers under the surface lock.
package rasterlayer
