package utils

import "regexp"

var resourceNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*$`)

// ValidResourceName reports whether name can be used for a volume or image.
// References are written "owner/name" inside comma lists, so neither '/' nor
// ',' may appear.
func ValidResourceName(name string) bool {
	return resourceNamePattern.MatchString(name)
}
