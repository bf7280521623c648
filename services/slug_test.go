package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nikoloz Bakhtadze", "nikoloz-bakhtadze"},
		{"  Tbilisi Open 2024  ", "tbilisi-open-2024"},
		{"Émile -- Zola!", "emile-zola"},
		{"BC Olimpi", "bc-olimpi"},
		{"ნიკა", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyOutputIsURLSafe(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		slug := Slugify(rapid.String().Draw(t, "name"))
		if slug == "" {
			return
		}
		if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") || strings.Contains(slug, "--") {
			t.Fatalf("malformed slug %q", slug)
		}
		for _, r := range slug {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				t.Fatalf("unexpected rune %q in %q", r, slug)
			}
		}
	})
}

func TestFallbackSlug(t *testing.T) {
	slug := fallbackSlug("player")
	assert.True(t, strings.HasPrefix(slug, "player-"))
	assert.Len(t, slug, len("player-")+8)
}

var errTaken = errors.New("taken")

func TestCreateWithSlugRetriesGenerated(t *testing.T) {
	var tried []string
	err := createWithSlug(context.Background(), "", "ana", errTaken, func(_ context.Context, slug string) error {
		tried = append(tried, slug)
		if len(tried) < 3 {
			return errTaken
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "ana-2", "ana-3"}, tried)
}

func TestCreateWithSlugKeepsRequested(t *testing.T) {
	calls := 0
	err := createWithSlug(context.Background(), "mine", "generated", errTaken, func(_ context.Context, slug string) error {
		calls++
		assert.Equal(t, "mine", slug)
		return errTaken
	})
	require.ErrorIs(t, err, errTaken)
	assert.Equal(t, 1, calls)
}

func TestCreateWithSlugGivesUp(t *testing.T) {
	calls := 0
	err := createWithSlug(context.Background(), "", "x", errTaken, func(context.Context, string) error {
		calls++
		return errTaken
	})
	require.ErrorIs(t, err, errTaken)
	assert.Equal(t, maxSlugAttempts, calls)
}
