package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DirectorySuite struct {
	suite.Suite
}

func TestDirectorySuite(t *testing.T) {
	suite.Run(t, new(DirectorySuite))
}

const listBody = `[
	{"name": {"common": "France", "official": "French Republic"}},
	{"name": {"common": "Germany", "official": "Federal Republic of Germany"}},
	{"name": {"common": "Japan", "official": "Japan"}}
]`

func (s *DirectorySuite) TestAllCountries() {
	s.Run("fetches once and caches for the process lifetime", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/all", r.URL.Path)
			s.Equal("name", r.URL.Query().Get("fields"))
			calls.Add(1)
			_, _ = w.Write([]byte(listBody))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second)
		ctx := context.Background()

		first := client.AllCountries(ctx)
		second := client.AllCountries(ctx)

		s.Equal([]string{"France", "Germany", "Japan"}, first)
		s.Equal(first, second)
		s.Equal(int32(1), calls.Load())
	})

	s.Run("concurrent first calls trigger a single fetch", func() {
		var calls atomic.Int32
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			<-release
			_, _ = w.Write([]byte(listBody))
		}))
		defer srv.Close()

		client := New(srv.URL, 5*time.Second)
		ctx := context.Background()

		var wg sync.WaitGroup
		results := make([][]string, 8)
		for i := range results {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = client.AllCountries(ctx)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		s.Equal(int32(1), calls.Load())
		for _, got := range results {
			s.Equal([]string{"France", "Germany", "Japan"}, got)
		}
	})

	s.Run("failure degrades to empty and retries on the next call", func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(listBody))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second)
		ctx := context.Background()

		s.Empty(client.AllCountries(ctx), "unavailable directory must yield an empty list, not an error")
		s.Equal([]string{"France", "Germany", "Japan"}, client.AllCountries(ctx))
		s.Equal(int32(2), calls.Load())
	})

	s.Run("unreachable server yields empty list", func() {
		client := New("http://127.0.0.1:1", 200*time.Millisecond)
		s.Empty(client.AllCountries(context.Background()))
	})
}

func (s *DirectorySuite) TestValidate() {
	s.Run("returns the canonical display form", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/name/Deutschland", r.URL.Path)
			_, _ = w.Write([]byte(`[{"name": {"common": "Germany", "official": "Federal Republic of Germany"}}]`))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second)
		canonical, err := client.Validate(context.Background(), "Deutschland")

		s.Require().NoError(err)
		s.Equal("Germany", canonical)
	})

	s.Run("non-success response maps to ErrNotFound", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status": 404, "message": "Not Found"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second)
		_, err := client.Validate(context.Background(), "Atlantis")

		s.ErrorIs(err, ErrNotFound)
	})

	s.Run("network failure maps to ErrNotFound, never a hard error", func() {
		client := New("http://127.0.0.1:1", 200*time.Millisecond)
		_, err := client.Validate(context.Background(), "France")

		s.ErrorIs(err, ErrNotFound)
	})

	s.Run("empty result set maps to ErrNotFound", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second)
		_, err := client.Validate(context.Background(), "Nowhere")

		s.ErrorIs(err, ErrNotFound)
	})
}
