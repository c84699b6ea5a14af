// Package chapters manages titled time intervals of a media file.
//
// Chapter lists come from three sources, tried in priority order by the
// Resolver: chapter metadata embedded in the video, timestamps parsed out of
// the free-text description, and acoustic silence detection. First-pass
// lists are contiguous; Refine then snaps boundaries toward nearby silence
// points while enforcing non-overlap and a minimum track duration.
package chapters
