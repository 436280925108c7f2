package enums

import "fmt"

// ContactType labels a shipping contact entry.
type ContactType string

const (
	ContactTypePhone   ContactType = "phone"
	ContactTypeAddress ContactType = "address"
)

var validContactTypes = []ContactType{
	ContactTypePhone,
	ContactTypeAddress,
}

// String implements fmt.Stringer.
func (c ContactType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContactType.
func (c ContactType) IsValid() bool {
	for _, candidate := range validContactTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContactType converts raw input into a ContactType.
func ParseContactType(value string) (ContactType, error) {
	for _, candidate := range validContactTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact type %q", value)
}
