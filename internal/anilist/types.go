// Package anilist provides the catalog types and GraphQL request layer for
// the AniList API.
package anilist

import (
	"errors"
	"fmt"
	"strings"
)

// Category identifies one logical grouping of catalog content.
// The set is closed: every switch over Category must handle all of them.
type Category string

const (
	Popular  Category = "Popular"
	Trending Category = "Trending"
	Seasonal Category = "Seasonal"
)

// ErrUnknownCategory is returned when a string does not name a Category.
var ErrUnknownCategory = errors.New("unknown category")

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Popular, Trending, Seasonal}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	switch c {
	case Popular, Trending, Seasonal:
		return true
	}
	return false
}

// ParseCategory accepts a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Title holds the localized titles of a media entry.
type Title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// Preferred returns the English title, falling back to romaji then native.
func (t Title) Preferred() string {
	switch {
	case t.English != "":
		return t.English
	case t.Romaji != "":
		return t.Romaji
	}
	return t.Native
}

// CoverImage holds cover image URLs.
type CoverImage struct {
	Large string `json:"large"`
	Color string `json:"color"`
}

// Media is a single catalog entry.
type Media struct {
	ID           int        `json:"id"`
	Title        Title      `json:"title"`
	CoverImage   CoverImage `json:"coverImage"`
	Format       string     `json:"format"`
	Status       string     `json:"status"`
	Episodes     int        `json:"episodes"`
	AverageScore int        `json:"averageScore"`
	Popularity   int        `json:"popularity"`
	Genres       []string   `json:"genres"`
	SiteURL      string     `json:"siteUrl"`
}

// PageInfo is the pagination block returned with every page.
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// PagedData is one resolved page of catalog items for a single category.
type PagedData struct {
	Type     Category `json:"type"`
	Items    []Media  `json:"items"`
	PageInfo PageInfo `json:"pageInfo"`
}
