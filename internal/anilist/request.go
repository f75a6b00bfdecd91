package anilist

import (
	"fmt"
	"time"
)

// DefaultPerPage is the page size used by the category requests.
const DefaultPerPage = 20

// Request describes one GraphQL query against the catalog.
type Request struct {
	Category  Category
	Query     string
	Variables map[string]any
}

// Key returns the cache key for the request.
func (r Request) Key() string {
	return string(r.Category)
}

const mediaFields = `
      id
      title { romaji english native }
      coverImage { large color }
      format
      status
      episodes
      averageScore
      popularity
      genres
      siteUrl`

const pageQuery = `query ($page: Int, $perPage: Int, $sort: [MediaSort]%s) {
  Page(page: $page, perPage: $perPage) {
    pageInfo { total currentPage lastPage hasNextPage perPage }
    media(type: ANIME, sort: $sort, isAdult: false%s) {%s
    }
  }
}`

// PopularRequest returns the all-time popularity request.
func PopularRequest() Request {
	return Request{
		Category: Popular,
		Query:    fmt.Sprintf(pageQuery, "", "", mediaFields),
		Variables: map[string]any{
			"page":    1,
			"perPage": DefaultPerPage,
			"sort":    []string{"POPULARITY_DESC"},
		},
	}
}

// TrendingRequest returns the currently-trending request.
func TrendingRequest() Request {
	return Request{
		Category: Trending,
		Query:    fmt.Sprintf(pageQuery, "", "", mediaFields),
		Variables: map[string]any{
			"page":    1,
			"perPage": DefaultPerPage,
			"sort":    []string{"TRENDING_DESC", "POPULARITY_DESC"},
		},
	}
}

// SeasonalRequest returns the in-season request for the season containing now.
func SeasonalRequest(now time.Time) Request {
	season, year := SeasonOf(now)
	return Request{
		Category: Seasonal,
		Query: fmt.Sprintf(pageQuery,
			", $season: MediaSeason, $seasonYear: Int",
			", season: $season, seasonYear: $seasonYear",
			mediaFields),
		Variables: map[string]any{
			"page":       1,
			"perPage":    DefaultPerPage,
			"sort":       []string{"POPULARITY_DESC"},
			"season":     season,
			"seasonYear": year,
		},
	}
}

// RequestFor returns the request backing c.
func RequestFor(c Category, now time.Time) Request {
	switch c {
	case Popular:
		return PopularRequest()
	case Trending:
		return TrendingRequest()
	case Seasonal:
		return SeasonalRequest(now)
	}
	panic(fmt.Sprintf("anilist: no request for category %q", c))
}

// Season is an AniList MediaSeason value.
type Season string

const (
	Winter Season = "WINTER"
	Spring Season = "SPRING"
	Summer Season = "SUMMER"
	Fall   Season = "FALL"
)

// SeasonOf maps a date to its broadcast season and year.
func SeasonOf(t time.Time) (Season, int) {
	switch t.Month() {
	case time.January, time.February, time.March:
		return Winter, t.Year()
	case time.April, time.May, time.June:
		return Spring, t.Year()
	case time.July, time.August, time.September:
		return Summer, t.Year()
	default:
		return Fall, t.Year()
	}
}
