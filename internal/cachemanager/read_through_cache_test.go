package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type loader struct {
	calls int
	err   error
}

func (l *loader) load(_ context.Context, scope string) (snapshot, error) {
	l.calls++
	if l.err != nil {
		return snapshot{}, l.err
	}
	return snapshot{Total: l.calls, Tracks: []string{scope}}, nil
}

func TestReadThroughCache_Get_CachesSuccess(t *testing.T) {
	l := &loader{}
	rtc := NewReadThroughCache[statsKey, snapshot, string](newCache[snapshot](), l.load, false)

	first, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	second, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)

	require.Equal(t, 1, l.calls)
	require.Equal(t, first, second)
}

func TestReadThroughCache_Get_SkipCache(t *testing.T) {
	l := &loader{}
	rtc := NewReadThroughCache[statsKey, snapshot, string](newCache[snapshot](), l.load, true)

	_, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	got, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)

	require.Equal(t, 2, l.calls)
	require.Equal(t, 2, got.Total)
}

func TestReadThroughCache_Get_ErrorsAreNotCached(t *testing.T) {
	l := &loader{err: errors.New("offline")}
	rtc := NewReadThroughCache[statsKey, snapshot, string](newCache[snapshot](), l.load, false)

	_, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.EqualError(t, err, "offline")

	l.err = nil
	got, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, got.Total)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	l := &loader{}
	rtc := NewReadThroughCache[statsKey, snapshot, string](newCache[snapshot](), l.load, false)

	_, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	require.NoError(t, rtc.Invalidate(context.Background(), "stats"))

	got, err := rtc.Get(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, got.Total)
}

func TestReadThroughCache_GetWithRefresh(t *testing.T) {
	l := &loader{}
	rtc := NewReadThroughCache[statsKey, snapshot, string](newCache[snapshot](), l.load, false)

	_, err := rtc.GetWithRefresh(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	got, err := rtc.GetWithRefresh(context.Background(), "stats", "all", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, got.Total)
	require.Equal(t, 1, l.calls)
}
