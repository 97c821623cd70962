package request

import (
	"net/url"
	"strconv"
	"strings"
)

// TitleRequest references its category and genres by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,notfuture"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre" validate:"required,dive,max=50,slug"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=50,slug"`
}

type TitleUpdateRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Year        *int      `json:"year,omitempty" validate:"omitempty,notfuture"`
	Description *string   `json:"description,omitempty"`
	Genre       *[]string `json:"genre,omitempty" validate:"omitempty,dive,max=50,slug"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,max=50,slug"`
}

// TitleFilterRequest holds the optional title list filters.
type TitleFilterRequest struct {
	Name     string
	Year     *int
	Genre    string
	Category string
}

// ParseTitleFilter reads name, year, genre and category from query. A year
// that is not an integer is reported in the returned map.
func ParseTitleFilter(query url.Values) (TitleFilterRequest, map[string]string) {
	filter := TitleFilterRequest{
		Name:     strings.TrimSpace(query.Get("name")),
		Genre:    strings.TrimSpace(query.Get("genre")),
		Category: strings.TrimSpace(query.Get("category")),
	}

	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, map[string]string{"year": "Enter a whole number"}
		}
		filter.Year = &year
	}

	return filter, nil
}
