// Package ytdlp wraps the yt-dlp command-line downloader.
//
// The client covers three invocation modes: audio download with live
// progress parsed off the stderr stream, single-line JSON metadata dumps,
// and flat playlist expansion. Downloads run through an ordered list of
// format selectors with a one-shot update-and-retry when the tool itself
// looks outdated.
//
// yt-dlp redraws its progress line with carriage returns, so the stream
// reader treats both \r and \n as line terminators and tolerates lines
// split across read boundaries.
package ytdlp
