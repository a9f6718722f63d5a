package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"capfinder/internal/capitals/models"
	dErrors "capfinder/pkg/domain-errors"
)

type FileStoreSuite struct {
	suite.Suite
	path string
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}

func (s *FileStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "country-capital.json")
	seed := `[
    {"country": "France", "capital": "Paris", "type": "countryCapital"},
    {"country": "Japan", "capital": "Tokyo", "type": "countryCapital"}
]`
	s.Require().NoError(os.WriteFile(s.path, []byte(seed), 0o644))
}

func (s *FileStoreSuite) TestLoad() {
	s.Run("loads entries in file order", func() {
		fs, err := Load(s.path)
		s.Require().NoError(err)

		entries := fs.Entries(context.Background())
		s.Require().Len(entries, 2)
		s.Equal("France", entries[0].Country)
		s.Equal("Tokyo", entries[1].Capital)
	})

	s.Run("missing file is a persistence error", func() {
		_, err := Load(filepath.Join(s.T().TempDir(), "absent.json"))
		s.True(dErrors.HasCode(err, dErrors.CodePersistence))
	})

	s.Run("malformed JSON is a persistence error", func() {
		path := filepath.Join(s.T().TempDir(), "broken.json")
		s.Require().NoError(os.WriteFile(path, []byte(`{"not":"a list"`), 0o644))

		_, err := Load(path)
		s.True(dErrors.HasCode(err, dErrors.CodePersistence))
	})

	s.Run("entry without capital is rejected", func() {
		path := filepath.Join(s.T().TempDir(), "empty-capital.json")
		s.Require().NoError(os.WriteFile(path, []byte(`[{"country":"France","capital":""}]`), 0o644))

		_, err := Load(path)
		s.True(dErrors.HasCode(err, dErrors.CodePersistence))
	})
}

func (s *FileStoreSuite) TestLookup() {
	fs, err := Load(s.path)
	s.Require().NoError(err)
	ctx := context.Background()

	s.Run("case and whitespace variants resolve identically", func() {
		for _, query := range []string{"France", "france", "FRANCE", "  france  "} {
			capital, err := fs.Lookup(ctx, query)
			s.Require().NoError(err, "query %q", query)
			s.Equal("Paris", capital)
		}
	})

	s.Run("misses wrap ErrNotFound", func() {
		_, err := fs.Lookup(ctx, "Franse")
		s.ErrorIs(err, ErrNotFound)
	})
}

func (s *FileStoreSuite) TestInsert() {
	ctx := context.Background()

	s.Run("persists and indexes the new entry", func() {
		fs, err := Load(s.path)
		s.Require().NoError(err)

		err = fs.Insert(ctx, models.CapitalEntry{Country: "Germany", Capital: "Berlin"})
		s.Require().NoError(err)

		capital, err := fs.Lookup(ctx, "germany")
		s.Require().NoError(err)
		s.Equal("Berlin", capital)

		reloaded, err := Load(s.path)
		s.Require().NoError(err)
		entries := reloaded.Entries(ctx)
		s.Require().Len(entries, 3)
		s.Equal(models.CapitalEntry{Country: "Germany", Capital: "Berlin", Type: models.EntryType}, entries[2])
	})

	s.Run("repeated saves append without dedup", func() {
		// Own file: earlier subtests have already written to s.path.
		path := filepath.Join(s.T().TempDir(), "country-capital.json")
		s.Require().NoError(os.WriteFile(path, []byte("[]\n"), 0o644))

		fs, err := Load(path)
		s.Require().NoError(err)

		s.Require().NoError(fs.Insert(ctx, models.CapitalEntry{Country: "Germany", Capital: "Berlin"}))
		s.Require().NoError(fs.Insert(ctx, models.CapitalEntry{Country: "Germany", Capital: "Berlin"}))

		count := 0
		for _, entry := range fs.Entries(ctx) {
			if entry.Country == "Germany" {
				count++
			}
		}
		s.Equal(2, count)

		capital, err := fs.Lookup(ctx, "germany")
		s.Require().NoError(err)
		s.Equal("Berlin", capital)
	})

	s.Run("rejects empty fields", func() {
		fs, err := Load(s.path)
		s.Require().NoError(err)

		err = fs.Insert(ctx, models.CapitalEntry{Country: "Germany"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rolls back the index when the write fails", func() {
		dir := filepath.Join(s.T().TempDir(), "doomed")
		s.Require().NoError(os.Mkdir(dir, 0o755))
		path := filepath.Join(dir, "store.json")
		s.Require().NoError(os.WriteFile(path, []byte(`[{"country":"France","capital":"Paris","type":"countryCapital"}]`), 0o644))

		fs, err := Load(path)
		s.Require().NoError(err)

		// Remove the backing directory so the atomic rewrite cannot complete.
		s.Require().NoError(os.RemoveAll(dir))

		err = fs.Insert(ctx, models.CapitalEntry{Country: "Germany", Capital: "Berlin"})
		s.True(dErrors.HasCode(err, dErrors.CodePersistence))

		_, err = fs.Lookup(ctx, "germany")
		s.ErrorIs(err, ErrNotFound)
		s.Len(fs.Entries(ctx), 1)
	})
}

func (s *FileStoreSuite) TestKeys() {
	fs, err := Load(s.path)
	s.Require().NoError(err)

	keys := fs.Keys(context.Background())
	s.ElementsMatch([]string{"france", "japan"}, keys)
}

func (s *FileStoreSuite) TestRoundTrip() {
	path := filepath.Join(s.T().TempDir(), "roundtrip.json")
	s.Require().NoError(os.WriteFile(path, []byte("[]\n"), 0o644))

	fs, err := Load(path)
	s.Require().NoError(err)
	ctx := context.Background()

	want := make([]models.CapitalEntry, 0, 10)
	for i := 0; i < 10; i++ {
		entry := models.CapitalEntry{
			Country: fmt.Sprintf("Country %02d", i),
			Capital: fmt.Sprintf("Capital %02d", i),
			Type:    models.EntryType,
		}
		s.Require().NoError(fs.Insert(ctx, entry))
		want = append(want, entry)
	}

	reloaded, err := Load(path)
	s.Require().NoError(err)
	s.Equal(want, reloaded.Entries(ctx))
}

func (s *FileStoreSuite) TestConcurrentInserts() {
	fs, err := Load(s.path)
	s.Require().NoError(err)
	ctx := context.Background()

	const workers = 16
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			return fs.Insert(ctx, models.CapitalEntry{
				Country: fmt.Sprintf("Country %02d", i),
				Capital: fmt.Sprintf("Capital %02d", i),
			})
		})
	}
	s.Require().NoError(g.Wait())

	reloaded, err := Load(s.path)
	s.Require().NoError(err)
	s.Equal(2+workers, len(reloaded.Entries(ctx)), "no insert may be lost")

	for i := 0; i < workers; i++ {
		capital, err := reloaded.Lookup(ctx, fmt.Sprintf("country %02d", i))
		s.Require().NoError(err)
		s.Equal(fmt.Sprintf("Capital %02d", i), capital)
	}
}
