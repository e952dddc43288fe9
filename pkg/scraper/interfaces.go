package scraper

import (
	"context"

	"tweetids/pkg/harvest"
)

// DayHarvester loads one search page and returns the identifiers on it
type DayHarvester interface {
	HarvestDay(ctx context.Context, url string) (harvest.DayResult, error)
}
