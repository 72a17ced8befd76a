package cache

import "net/url"

// Key builds a deterministic request signature from an endpoint path and its
// query parameters. url.Values.Encode sorts by key, so identical requests
// always produce identical signatures and distinct cursors produce distinct
// ones.
func Key(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
