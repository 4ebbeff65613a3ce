package guests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherDecodesGuestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events/ev-1/guests", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]Guest{
			{ID: "g1", Name: "Ana", RSVPStatus: "confirmed", Allergies: []string{"nuts"}},
			{ID: "g2", Name: "Rui"},
		})
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", time.Second, nil)
	guests, err := f.FetchGuests(context.Background(), "ev-1")
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, []string{"nuts"}, guests[0].Allergies)
}

func TestHTTPFetcherReportsUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, time.Second, nil).FetchGuests(context.Background(), "ev-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

type stubFetcher struct {
	guests []Guest
	err    error
}

func (s stubFetcher) FetchGuests(context.Context, string) ([]Guest, error) {
	return s.guests, s.err
}

func TestDirectoryFailureSubstitutesEmptyList(t *testing.T) {
	d := NewDirectory(stubFetcher{err: errors.New("offline")}, "ev-1")

	err := d.Refresh(context.Background())
	require.Error(t, err)

	state := d.State()
	assert.False(t, state.Loading)
	assert.Equal(t, "offline", state.Err)
	assert.NotNil(t, state.Guests)
	assert.Empty(t, state.Guests)
}

func TestDirectoryCachesGuests(t *testing.T) {
	d := NewDirectory(stubFetcher{guests: []Guest{{ID: "g1", Name: "Ana"}}}, "ev-1")
	require.NoError(t, d.Refresh(context.Background()))

	g, ok := d.Find("g1")
	require.True(t, ok)
	assert.Equal(t, "Ana", g.Name)
	_, ok = d.Find("nobody")
	assert.False(t, ok)
	assert.Empty(t, d.State().Err)
}

func TestDirectoryWithoutEventIsEmpty(t *testing.T) {
	d := NewDirectory(stubFetcher{err: errors.New("never called")}, "")
	require.NoError(t, d.Refresh(context.Background()))
	assert.Empty(t, d.Guests())
}
