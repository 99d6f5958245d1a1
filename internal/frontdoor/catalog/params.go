package catalog

import (
	"net/url"
	"strconv"

	"github.com/tjfontaine/gamefo-gateway/internal/domain"
)

// intParam returns the integer value of name, or def when it is absent or
// not an integer. Range is not checked.
func intParam(q url.Values, name string, def int) int {
	raw := q.Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func listGamesParams(q url.Values) domain.ListGamesParams {
	p := domain.NewListGamesParams()
	p.Page = intParam(q, "page", p.Page)
	p.Search = q.Get("search")
	p.Genres = q.Get("genres")
	p.Platforms = q.Get("platforms")
	return p
}

func recentGamesParams(q url.Values) domain.RecentGamesParams {
	p := domain.NewRecentGamesParams()
	p.Page = intParam(q, "page", p.Page)
	p.PageSize = intParam(q, "pageSize", p.PageSize)
	return p
}

func searchParams(q url.Values) domain.SearchParams {
	return domain.SearchParams{Search: q.Get("search")}
}
