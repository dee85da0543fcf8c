// Package render drives ffmpeg to turn a source audio clip and a
// composed filter graph into the final video artifact. A failed
// captioned run is retried once in the same invocation with the
// reduced, captionless graph before the failure propagates.
package render
