// Package robots checks whether a site's robots.txt lets pf read its REST API.
package robots

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/log"
	"github.com/pf-cli/pf/util"
	"github.com/temoto/robotstxt"
)

// Allowed fetches /robots.txt of the site and reports whether userAgent may
// read the listing path. A missing robots.txt allows everything; an
// unreachable one is an error.
func Allowed(ctx context.Context, client *http.Client, site, userAgent string) (bool, error) {
	base, err := url.Parse(site)
	if err != nil || base.Host == "" {
		return false, fmt.Errorf("%w: invalid site address %q", api.ErrConfiguration, site)
	}

	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: fetch robots.txt: %w", api.ErrTransport, err)
	}
	defer util.Ignore(resp.Body.Close)

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return false, fmt.Errorf("%w: parse robots.txt: %w", api.ErrProtocol, err)
	}

	path := fmt.Sprintf("%s/%s/", strings.TrimSuffix(base.Path, "/"), constant.APIPrefix)
	allowed := data.TestAgent(path, userAgent)
	log.Infof("robots.txt of %s: %s allowed=%t", base.Host, path, allowed)

	return allowed, nil
}
