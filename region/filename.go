package region

import (
	"fmt"
	"regexp"
	"strconv"
)

// Container filenames are `r.<cx>.<cz>.mca` with signed decimal container
// coordinates. Anything else, including extra path segments or a missing
// sign-digit shape, is rejected.
var filenameRe = regexp.MustCompile(`^r\.(-?\d+)\.(-?\d+)\.mca$`)

// ParseFilename extracts the container coordinates from a filename.
func ParseFilename(name string) (cx, cz int32, ok bool) {
	m := filenameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}

	x, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	z, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return 0, 0, false
	}

	return int32(x), int32(z), true
}

// Filename builds the container filename for the given coordinates.
func Filename(cx, cz int32) string {
	return fmt.Sprintf("r.%d.%d.mca", cx, cz)
}
