package menu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"home":              "home",
		"Main Menu":         "mainMenu",
		"user-profile":      "userProfile",
		"user_profile":      "userprofile",
		"  About us!  ":     "aboutUs",
		"Café Crème":        "cafeCreme",
		"item 2":            "item2",
		"API keys & tokens": "apiKeysTokens",
		"":                  "",
	}

	for in, want := range tests {
		require.Equal(t, want, Slug(in), "Slug(%q)", in)
		require.Equal(t, Slug(in), Slug(in), "Slug(%q) is deterministic", in)
	}
}
