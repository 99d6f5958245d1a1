package rawg

import (
	"net/url"
	"strings"
	"testing"

	"github.com/tjfontaine/gamefo-gateway/internal/domain"
)

const testBase = "https://api.rawg.io/api"

func newTestClient() *Client {
	return NewClient("test-key")
}

func TestListGamesURL(t *testing.T) {
	c := newTestClient()

	tests := []struct {
		name   string
		params domain.ListGamesParams
		want   string
	}{
		{
			name:   "defaults only",
			params: domain.NewListGamesParams(),
			want:   testBase + "/games?key=test-key&ordering=released&page=1",
		},
		{
			name:   "search adds exact match flag",
			params: domain.ListGamesParams{Page: 2, Search: "zelda"},
			want:   testBase + "/games?key=test-key&ordering=released&page=2&search=zelda&search_exact=true",
		},
		{
			name:   "search is trimmed and encoded",
			params: domain.ListGamesParams{Page: 1, Search: "  the witcher 3&x=1 "},
			want:   testBase + "/games?key=test-key&ordering=released&page=1&search=the%20witcher%203%26x%3D1&search_exact=true",
		},
		{
			name:   "whitespace search omitted",
			params: domain.ListGamesParams{Page: 1, Search: " \t "},
			want:   testBase + "/games?key=test-key&ordering=released&page=1",
		},
		{
			name:   "genres only",
			params: domain.ListGamesParams{Page: 1, Genres: "4"},
			want:   testBase + "/games?key=test-key&ordering=released&page=1&genres=4",
		},
		{
			name:   "platforms only",
			params: domain.ListGamesParams{Page: 3, Platforms: "187,18"},
			want:   testBase + "/games?key=test-key&ordering=released&page=3&platforms=187,18",
		},
		{
			name:   "everything",
			params: domain.ListGamesParams{Page: 4, Search: "mario", Genres: "4,51", Platforms: "7"},
			want:   testBase + "/games?key=test-key&ordering=released&page=4&search=mario&search_exact=true&genres=4,51&platforms=7",
		},
		{
			name:   "page passes through unchecked",
			params: domain.ListGamesParams{Page: -5},
			want:   testBase + "/games?key=test-key&ordering=released&page=-5",
		},
		{
			name:   "id list cannot inject parameters",
			params: domain.ListGamesParams{Page: 1, Genres: "4&key=other"},
			want:   testBase + "/games?key=test-key&ordering=released&page=1&genres=4%26key%3Dother",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ListGamesURL(tt.params); got != tt.want {
				t.Errorf("ListGamesURL() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestListGamesURL_ParameterCounts(t *testing.T) {
	c := newTestClient()

	for _, search := range []string{"", " ", "halo", "  halo  "} {
		for _, genres := range []string{"", "4"} {
			for _, platforms := range []string{"", "1,2"} {
				raw := c.ListGamesURL(domain.ListGamesParams{Page: 1, Search: search, Genres: genres, Platforms: platforms})
				u, err := url.Parse(raw)
				if err != nil {
					t.Fatalf("parse %s: %v", raw, err)
				}
				q := u.Query()

				if !strings.HasPrefix(u.RawQuery, "key=") {
					t.Errorf("%s: key is not the first parameter", raw)
				}
				for name, values := range q {
					if len(values) != 1 {
						t.Errorf("%s: parameter %s appears %d times", raw, name, len(values))
					}
				}

				wantSearch := strings.TrimSpace(search) != ""
				if _, ok := q["search"]; ok != wantSearch {
					t.Errorf("%s: search present = %v, want %v", raw, ok, wantSearch)
				}
				if _, ok := q["search_exact"]; ok != wantSearch {
					t.Errorf("%s: search_exact present = %v, want %v", raw, ok, wantSearch)
				}
				if _, ok := q["genres"]; ok != (genres != "") {
					t.Errorf("%s: genres present = %v", raw, ok)
				}
				if _, ok := q["platforms"]; ok != (platforms != "") {
					t.Errorf("%s: platforms present = %v", raw, ok)
				}
			}
		}
	}
}

func TestRecentGamesURL(t *testing.T) {
	c := newTestClient()

	got := c.RecentGamesURL(domain.NewRecentGamesParams())
	want := testBase + "/games?key=test-key&ordering=-released&page=1&page_size=16"
	if got != want {
		t.Errorf("RecentGamesURL() = %s, want %s", got, want)
	}

	got = c.RecentGamesURL(domain.RecentGamesParams{Page: 2, PageSize: 40})
	want = testBase + "/games?key=test-key&ordering=-released&page=2&page_size=40"
	if got != want {
		t.Errorf("RecentGamesURL() = %s, want %s", got, want)
	}
}

func TestSearchURL(t *testing.T) {
	c := newTestClient()

	tests := []struct {
		search string
		want   string
	}{
		{"", testBase + "/games?key=test-key&page_size=12"},
		{"   ", testBase + "/games?key=test-key&page_size=12"},
		{"portal", testBase + "/games?key=test-key&page_size=12&search=portal"},
		{" half life ", testBase + "/games?key=test-key&page_size=12&search=half%20life"},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := c.SearchURL(domain.SearchParams{Search: tt.search})
			if got != tt.want {
				t.Errorf("SearchURL(%q) = %s, want %s", tt.search, got, tt.want)
			}
			if strings.Contains(got, "search_exact") {
				t.Error("search endpoint must not send the exact-match flag")
			}
		})
	}
}

func TestResourceURLs(t *testing.T) {
	c := newTestClient()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"game", c.GameURL("123"), testBase + "/games/123?key=test-key"},
		{"game slug", c.GameURL("portal-2"), testBase + "/games/portal-2?key=test-key"},
		{"game escaped", c.GameURL("../genres"), testBase + "/games/..%2Fgenres?key=test-key"},
		{"reviews", c.ReviewsURL("3498"), testBase + "/games/3498/reviews?key=test-key"},
		{"genres", c.GenresURL(), testBase + "/genres?key=test-key"},
		{"platforms", c.PlatformsURL(), testBase + "/platforms?key=test-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestWithBaseURL(t *testing.T) {
	c := NewClient("k", WithBaseURL("http://mirror.local/api/"))
	if got := c.GenresURL(); got != "http://mirror.local/api/genres?key=k" {
		t.Errorf("GenresURL() = %s", got)
	}
}

func TestQueryBuilder_NoDuplicates(t *testing.T) {
	q := newQuery("https://x/y").add("a", "1").add("b", "2").add("a", "3")
	if got := q.String(); got != "https://x/y?a=1&b=2" {
		t.Errorf("String() = %s", got)
	}
}
