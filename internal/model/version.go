package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is a structured major.minor.build.revision app version. Components
// missing from the parsed string are zero.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

func ParseVersion(s string) (Version, error) {
	var v Version
	if s == "" {
		return v, errors.New("empty version string")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return v, errors.Errorf("version %q has more than 4 components", s)
	}
	dst := []*int{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, errors.Errorf("invalid version component %q in %q", part, s)
		}
		*dst[i] = n
	}
	return v, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Compare returns -1, 0 or 1 comparing v against o component by component.
func (v Version) Compare(o Version) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{o.Major, o.Minor, o.Build, o.Revision}
	for i := 0; i < 4; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// CompareVersionStrings orders two raw app version strings in structured
// version order, falling back to lexical order when either side does not
// parse.
func CompareVersionStrings(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return va.Compare(vb)
}
