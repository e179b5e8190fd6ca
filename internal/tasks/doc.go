// Package tasks runs the daily discovery pipeline with real-time progress reporting.
//
// # Pipeline
//
// [DiscoveryEngine.Run] performs one sequential pass:
//
//  1. [GenreSelector.For] : weekday → Deezer genre id
//  2. [services.ChartFetcher] : ranked chart for that genre
//  3. [FilterNew] : drop tracks already in the download history, keep the first N
//  4. [repositories.HistoryStore] : prepend the selection to the history
//  5. [services.Resolver] : one watch URL per selected track
//  6. [download.Downloader] : one yt-dlp invocation per resolved URL
//
// Every selected track is resolved before the first download starts.
//
// # Failures
//
// Genre, chart and history errors end the run. Lookup and download failures are recorded
// per track as a [TrackOutcome] in the [RunReport] and the run continues.
//
// # Progress Reporting
//
// Updates are sent with select/default so a slow or absent reader never blocks the run.
package tasks
