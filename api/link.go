package api

import (
	"strings"

	"github.com/samber/mo"
)

// NextLink extracts the rel="next" target from a Link header value such as
//
//	<https://example.com/wp-json/wp/v2/posts?page=1>; rel="prev", <https://example.com/wp-json/wp/v2/posts?page=3>; rel="next"
func NextLink(header string) mo.Option[string] {
	for _, token := range strings.Split(header, ",") {
		if !strings.Contains(token, `rel="next"`) {
			continue
		}

		target, _, _ := strings.Cut(token, ";")
		target = strings.TrimSpace(target)
		target = strings.TrimLeft(target, "<")
		target = strings.TrimRight(target, ">")
		return mo.Some(target)
	}

	return mo.None[string]()
}
