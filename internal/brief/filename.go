package brief

import (
	"regexp"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

const fallbackBaseName = "Project"

// SafeName replaces every character outside [A-Za-z0-9_-] with an underscore.
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallbackBaseName
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// FileNames returns the document and archive names for a business on a date.
func FileNames(businessName string, now time.Time) (document, archive string) {
	base := SafeName(businessName)
	date := now.Format("2006-01-02")
	return base + "_Creative_Brief_" + date + ".pdf", base + "_Assets_" + date + ".zip"
}
