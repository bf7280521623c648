package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const maxSlugAttempts = 5

// Slugify lowercases s, strips accents and joins ASCII words with single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// fallbackSlug is used when a name has no ASCII letters, e.g. Georgian only.
func fallbackSlug(prefix string) string {
	return prefix + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// createWithSlug runs create with the requested slug. A generated slug that
// collides is retried with a numeric suffix; a caller supplied one is not.
func createWithSlug(ctx context.Context, requested, generated string, conflict error, create func(ctx context.Context, slug string) error) error {
	if requested != "" {
		return create(ctx, requested)
	}
	slug := generated
	var err error
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		err = create(ctx, slug)
		if !errors.Is(err, conflict) {
			return err
		}
		slug = generated + "-" + strconv.Itoa(attempt+1)
	}
	return err
}
