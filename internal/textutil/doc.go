// Package textutil provides naming helpers for downloaded albums and tracks:
// deriving artist/album pairs from video titles, cleaning directory names,
// sanitizing chapter titles for filesystem use, and formatting durations.
package textutil
