// package download runs the external downloader for resolved tracks
//
// yt-dlp is driven through go-ytdlp as a blocking subprocess, one URL at a time.
package download
