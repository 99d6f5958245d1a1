package rawg

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tjfontaine/gamefo-gateway/internal/domain"
)

// queryBuilder appends parameters in call order. The key must come first,
// which rules out url.Values since Encode sorts by name.
type queryBuilder struct {
	b    strings.Builder
	seen map[string]struct{}
}

func newQuery(base string) *queryBuilder {
	q := &queryBuilder{seen: make(map[string]struct{})}
	q.b.WriteString(base)
	return q
}

// add appends name=value. value must already be escaped. Repeated names
// are ignored.
func (q *queryBuilder) add(name, value string) *queryBuilder {
	if _, dup := q.seen[name]; dup {
		return q
	}
	q.seen[name] = struct{}{}

	if len(q.seen) == 1 {
		q.b.WriteByte('?')
	} else {
		q.b.WriteByte('&')
	}
	q.b.WriteString(name)
	q.b.WriteByte('=')
	q.b.WriteString(value)
	return q
}

func (q *queryBuilder) String() string {
	return q.b.String()
}

func (c *Client) query(path string) *queryBuilder {
	return newQuery(c.baseURL+path).add("key", url.QueryEscape(c.apiKey))
}

// ListGamesURL builds the main listing URL: key, ordering and page always,
// then search with the exact-match flag, genres and platforms when set.
func (c *Client) ListGamesURL(p domain.ListGamesParams) string {
	q := c.query("/games").
		add("ordering", "released").
		add("page", strconv.Itoa(p.Page))

	if search := strings.TrimSpace(p.Search); search != "" {
		q.add("search", encodeComponent(search)).add("search_exact", "true")
	}
	if p.Genres != "" {
		q.add("genres", escapeIDList(p.Genres))
	}
	if p.Platforms != "" {
		q.add("platforms", escapeIDList(p.Platforms))
	}
	return q.String()
}

// RecentGamesURL builds the newest-first listing URL.
func (c *Client) RecentGamesURL(p domain.RecentGamesParams) string {
	return c.query("/games").
		add("ordering", "-released").
		add("page", strconv.Itoa(p.Page)).
		add("page_size", strconv.Itoa(p.PageSize)).
		String()
}

// GameURL builds the detail URL for a single game.
func (c *Client) GameURL(id string) string {
	return c.query("/games/" + url.PathEscape(id)).String()
}

// ReviewsURL builds the reviews URL for a single game.
func (c *Client) ReviewsURL(id string) string {
	return c.query("/games/" + url.PathEscape(id) + "/reviews").String()
}

func (c *Client) GenresURL() string {
	return c.query("/genres").String()
}

func (c *Client) PlatformsURL() string {
	return c.query("/platforms").String()
}

// SearchURL builds the quick search URL. The page size is fixed and no
// exact-match flag is sent.
func (c *Client) SearchURL(p domain.SearchParams) string {
	q := c.query("/games").add("page_size", strconv.Itoa(domain.SearchPageSize))
	if search := strings.TrimSpace(p.Search); search != "" {
		q.add("search", encodeComponent(search))
	}
	return q.String()
}

// encodeComponent percent-encodes free text for a query value. Spaces become
// %20 rather than '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// escapeIDList escapes each element of a comma separated id list while
// keeping the separators the upstream expects.
func escapeIDList(ids string) string {
	parts := strings.Split(ids, ",")
	for i, part := range parts {
		parts[i] = encodeComponent(part)
	}
	return strings.Join(parts, ",")
}
