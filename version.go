package solr

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Solr protocol version marker. It selects the JSON update
// handler and enables version dependent parameters such as facet.pivot.mincount.
type Version struct {
	Major int
	Minor int
}

// Known Solr versions.
var (
	Solr3_2 = Version{3, 2}
	Solr4_0 = Version{4, 0}
	Solr5_0 = Version{5, 0}
	Solr6_0 = Version{6, 0}
	Solr7_0 = Version{7, 0}
	Solr8_0 = Version{8, 0}
	Solr9_0 = Version{9, 0}
)

// ParseVersion parses "major" or "major.minor".
func ParseVersion(s string) (Version, error) {
	major, minor, _ := strings.Cut(strings.TrimSpace(s), ".")
	maj, err := strconv.Atoi(major)
	if err != nil || maj < 0 {
		return Version{}, fmt.Errorf("solr: invalid version %q", s)
	}
	var mn int
	if minor != "" {
		// "5.5.1" keeps only the minor component.
		minor, _, _ = strings.Cut(minor, ".")
		if mn, err = strconv.Atoi(minor); err != nil || mn < 0 {
			return Version{}, fmt.Errorf("solr: invalid version %q", s)
		}
	}
	return Version{Major: maj, Minor: mn}, nil
}

// AtLeast reports whether v >= o.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	return v.Minor >= o.Minor
}

func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}
