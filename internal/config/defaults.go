package config

import "time"

// Default configuration values.
const (
	DefaultWikiBaseURL = "https://uk.wikipedia.org"
	DefaultWikiTimeout = 30 * time.Second

	DefaultParametersFile  = "params.txt"
	DefaultCountriesFile   = "countries.txt"
	DefaultRecommendedFile = "recommended_wd_ids.txt"

	DefaultResultFile = "result.txt"

	DefaultCacheEnabled = false
	DefaultCacheDir     = ".jurybot-cache"
)
