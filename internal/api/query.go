package api

import (
	"net/url"
	"strconv"
)

// Filter serialization rule: only set fields become query parameters. Zero
// values count as unset, matching the portal UI, which never sends a
// parameter the user has not picked. url.Values.Encode sorts keys, so the
// produced query string is deterministic for any field combination.

func setString(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

func setInt(values url.Values, key string, value int) {
	if value != 0 {
		values.Set(key, strconv.Itoa(value))
	}
}
