// Package insight supplies the short destination marketing blurb shown next
// to the route search. The capability is pluggable and can be entirely
// unavailable; callers always get a displayable string, never an error.
package insight

import (
	"context"
	"fmt"
)

type Provider interface {
	Insight(ctx context.Context, city string) string
}

// Disabled is the default provider when no credential is configured.
type Disabled struct{}

func (Disabled) Insight(_ context.Context, _ string) string {
	return "AI insights unavailable (Missing API Key)."
}

// FallbackText is what a city gets when the upstream call fails.
func FallbackText(city string) string {
	return fmt.Sprintf("Enjoy a comfortable ride to %s.", city)
}

// DefaultText covers upstream responses that come back empty.
func DefaultText(city string) string {
	return fmt.Sprintf("Discover the beauty of %s!", city)
}
