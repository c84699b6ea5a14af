// Package silence models acoustic silence points detected by the ffmpeg
// silencedetect filter.
//
// A silence point is the midpoint of a detected sub-threshold-volume
// interval. The detection batch carries no ordering guarantee, so lookups
// scan the whole slice.
package silence
