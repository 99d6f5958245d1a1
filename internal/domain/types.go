// Package domain holds the request, response and error shapes shared by the
// upstream client and the catalog front door.
package domain

// Resource identifies which upstream collection a request targets.
type Resource string

const (
	ResourceGames       Resource = "games"
	ResourceRecentGames Resource = "recent_games"
	ResourceGame        Resource = "game"
	ResourceGenres      Resource = "genres"
	ResourcePlatforms   Resource = "platforms"
	ResourceReviews     Resource = "reviews"
	ResourceSearch      Resource = "search"
)

// FailureMessage returns the error string reported to clients when a request
// for this resource cannot be served.
func (r Resource) FailureMessage() string {
	switch r {
	case ResourceGame:
		return "Failed to fetch game data"
	case ResourceGenres:
		return "Failed to fetch genres"
	case ResourcePlatforms:
		return "Failed to fetch platforms"
	case ResourceReviews:
		return "Failed to fetch reviews"
	default:
		// list, recent and search all surface as a games failure
		return "Failed to fetch games"
	}
}

const (
	// DefaultPage is used when the client omits page or sends a non-integer.
	DefaultPage = 1

	// DefaultRecentPageSize is the page size of the recent games listing.
	DefaultRecentPageSize = 16

	// SearchPageSize is always sent by the search endpoint.
	SearchPageSize = 12
)

// ListGamesParams are the inputs of the main games listing.
// Genres and Platforms are comma separated upstream ids; empty means absent.
type ListGamesParams struct {
	Page      int
	Search    string
	Genres    string
	Platforms string
}

// NewListGamesParams returns params with documented defaults applied.
func NewListGamesParams() ListGamesParams {
	return ListGamesParams{Page: DefaultPage}
}

// RecentGamesParams are the inputs of the recent games listing.
type RecentGamesParams struct {
	Page     int
	PageSize int
}

// NewRecentGamesParams returns params with documented defaults applied.
func NewRecentGamesParams() RecentGamesParams {
	return RecentGamesParams{Page: DefaultPage, PageSize: DefaultRecentPageSize}
}

// SearchParams are the inputs of the quick search endpoint.
type SearchParams struct {
	Search string
}

// OpaqueJSON is an upstream response body passed through untouched.
// It is never decoded into a typed model.
type OpaqueJSON []byte

// MarshalJSON returns the body verbatim, or null when empty.
func (o OpaqueJSON) MarshalJSON() ([]byte, error) {
	if len(o) == 0 {
		return []byte("null"), nil
	}
	return o, nil
}
