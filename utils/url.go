package utils

import (
	"net/url"
	"strings"
)

// GetRedactedUrl strips credentials and api keys from rpc urls before they get logged.
// Alchemy style urls carry the key as the last path segment.
func GetRedactedUrl(requrl string) string {
	urlData, err := url.Parse(requrl)
	if err != nil {
		return "?"
	}

	if urlData.User != nil {
		urlData.User = url.User("xxx")
	}
	urlData.RawQuery = ""

	if strings.HasSuffix(urlData.Host, "alchemy.com") {
		segments := strings.Split(urlData.Path, "/")
		if len(segments) > 0 && segments[len(segments)-1] != "" {
			segments[len(segments)-1] = "xxx"
		}
		urlData.Path = strings.Join(segments, "/")
	}

	return urlData.String()
}

// JoinUrlPath appends an absolute path to a base url, avoiding duplicate slashes.
func JoinUrlPath(baseUrl string, path string) string {
	return strings.TrimSuffix(baseUrl, "/") + "/" + strings.TrimPrefix(path, "/")
}
