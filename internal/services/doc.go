// Package services implements the external collaborators of a discovery run.
//
// # Chart Fetching
//
// [DeezerService] implements [ChartFetcher] against the public Deezer chart endpoint:
//
//	GET {base}/{genreId}?limit={limit}&index={offset}
//
// The response's tracks.data list is mapped to [models.Track] (title, artist.name, link).
//
// # Track Resolution
//
// Two [Resolver] implementations exist, selected by resolver.backend:
//   - [YouTubeSearchResolver] reads the YouTube results page and takes the first video's watch path.
//   - [ProxyResolver] asks the ytmusicapi proxy (/api/search) and builds a watch URL from the first videoId.
//
// Both send "{title} {artist}" as the query and consider exactly one candidate.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrFetch] : transport failure or non-2xx status
//   - [shared.ErrSchema] : response is missing expected fields
//   - [shared.ErrNoResults] : lookup returned no candidates
package services
