package grafana

import (
	"net/url"
	"regexp"
)

var dashboardPathRegexp = regexp.MustCompile(`^/[^/]+/[^/]+/(?P<uid>[\w-]+)`)

// ResolveDashboardUID extracts the dashboard uid from the third path segment of a
// link such as https://example.com/grafana/d/<uid>?orgId=1. Only word characters
// and dashes are taken. It reports false when the path does not have the
// /<segment>/<segment>/<uid> shape.
func ResolveDashboardUID(link string) (string, bool) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	match := dashboardPathRegexp.FindStringSubmatch(parsed.Path)
	if match == nil {
		return "", false
	}
	return match[dashboardPathRegexp.SubexpIndex("uid")], true
}
