package grafana

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Legacy dashboard alerting was removed from Grafana in 11.0.0, prereleases included.
var legacyAlertingRemoved = semver.MustParse("11.0.0-0")

// SupportsLegacyAlerting reports whether a Grafana server of the given version
// can still serve panel alert rules.
func SupportsLegacyAlerting(version string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid grafana version %q: %w", version, err)
	}
	return v.LessThan(legacyAlertingRemoved), nil
}
