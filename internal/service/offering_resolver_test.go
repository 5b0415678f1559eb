package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

func TestOfferingResolverOddFalls(t *testing.T) {
	resolver := newTestResolver(map[string]string{"c-cs301": "fo"})
	ctx := context.Background()

	cases := []struct {
		semester models.Semester
		want     bool
	}{
		{models.Semester{Season: models.SeasonSpring, Year: 2026}, false},
		{models.Semester{Season: models.SeasonFall, Year: 2025}, true},
		{models.Semester{Season: models.SeasonFall, Year: 2026}, false},
	}
	for _, tc := range cases {
		offered, err := resolver.IsOffered(ctx, "c-cs301", tc.semester)
		require.NoError(t, err)
		assert.Equal(t, tc.want, offered, tc.semester.String())
	}
}

func TestOfferingResolverUnknownCourse(t *testing.T) {
	resolver := newTestResolver(map[string]string{"c-cs301": "e", "c-bad": "zz"})
	ctx := context.Background()

	offered, err := resolver.IsOffered(ctx, "c-missing", sp2026)
	require.NoError(t, err)
	assert.False(t, offered)

	_, err = resolver.Code(ctx, "c-bad")
	assert.True(t, errors.Is(err, appErrors.ErrOfferingNotFound))
}

func TestOfferingCacheLoadsOnceAndInvalidates(t *testing.T) {
	source := &offeringSourceStub{table: map[string]string{"c1": "e"}}
	cache := NewOfferingCache(source, nil)
	ctx := context.Background()

	loaded, _ := cache.Loaded()
	assert.False(t, loaded)

	for i := 0; i < 3; i++ {
		_, found, err := cache.Lookup(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, found)
	}
	assert.Equal(t, 1, source.calls)

	cache.Invalidate()
	loaded, _ = cache.Loaded()
	assert.False(t, loaded)
	_, _, err := cache.Lookup(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestOfferingCacheSourceFailure(t *testing.T) {
	cache := NewOfferingCache(&offeringSourceStub{err: errors.New("boom")}, nil)
	err := cache.Init(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDataSource))

	err = NewOfferingCache(nil, nil).Init(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrDataSource))
}

func TestOfferingResolverNextOffering(t *testing.T) {
	resolver := newTestResolver(map[string]string{"c-cs301": "fo", "c-cs101": "e", "c-math310": "se"})
	ctx := context.Background()

	next, code, err := resolver.NextOffering(ctx, "c-cs301", 2026)
	require.NoError(t, err)
	assert.Equal(t, models.OfferingOddFall, code)
	assert.Equal(t, models.Semester{Season: models.SeasonFall, Year: 2027}, next)

	text, err := resolver.ExplainNextOffering(ctx, "c-cs301", "CS 301", 2026)
	require.NoError(t, err)
	assert.Equal(t, "CS 301 is next offered Fall 2027 (odd-year falls)", text)

	text, err = resolver.ExplainNextOffering(ctx, "c-cs101", "", 2026)
	require.NoError(t, err)
	assert.Equal(t, "c-cs101 is offered every semester; next offered Spring 2026", text)

	next, _, err = resolver.NextOffering(ctx, "c-math310", 2027)
	require.NoError(t, err)
	assert.Equal(t, models.Semester{Season: models.SeasonSpring, Year: 2028}, next)

	_, _, err = resolver.NextOffering(ctx, "c-missing", 2026)
	assert.True(t, errors.Is(err, appErrors.ErrOfferingNotFound))
}
