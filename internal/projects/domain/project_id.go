package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"regexp"
)

const ProjectIDPrefix = "onb"

var projectIDPattern = regexp.MustCompile(`^onb-[0-9]{5}-[0-9]{4}$`)

// NewProjectID returns an id shaped like "onb-48213-0937" that the client can
// read back over the phone.
func NewProjectID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("project id: %w", err)
	}
	n := binary.BigEndian.Uint64(buf[:])
	return fmt.Sprintf("%s-%05d-%04d", ProjectIDPrefix, n%100000, (n/100000)%10000), nil
}

// IsProjectID reports whether s has the shape NewProjectID produces.
func IsProjectID(s string) bool {
	return projectIDPattern.MatchString(s)
}
