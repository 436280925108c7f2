package enums

import "fmt"

// ShopState controls whether a shop's listings are visible and orderable.
type ShopState string

const (
	ShopStateOn  ShopState = "on"
	ShopStateOff ShopState = "off"
)

var validShopStates = []ShopState{
	ShopStateOn,
	ShopStateOff,
}

// String implements fmt.Stringer.
func (s ShopState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShopState.
func (s ShopState) IsValid() bool {
	for _, candidate := range validShopStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShopState converts raw input into a ShopState.
func ParseShopState(value string) (ShopState, error) {
	for _, candidate := range validShopStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop state %q", value)
}
