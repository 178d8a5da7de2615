package registry

import (
	"strconv"
	"strings"

	"github.com/nekogravitycat/stay-booking-backend/internal/account"
)

// addressSeparator joins a resource name to the registry address. Names may not contain it,
// which keeps DeriveAddress injective.
const addressSeparator = "."

// DeriveAddress returns the address of the resource called name in the registry at registryAddress.
func DeriveAddress(name, registryAddress string) string {
	return name + addressSeparator + registryAddress
}

// ValidName reports whether name can ever be registered.
func ValidName(name string) bool {
	if strings.Contains(name, addressSeparator) {
		return false
	}
	return account.ValidID(name)
}

// validLocation accepts "<latitude>,<longitude>" with both parts in range.
func validLocation(location string) bool {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return false
	}
	return true
}

// cleanFeatures trims every feature and drops empty entries.
func cleanFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SplitFeatures parses a comma separated feature list such as "Wifi, 2 Swimming pools".
func SplitFeatures(s string) []string {
	return cleanFeatures(strings.Split(s, ","))
}
