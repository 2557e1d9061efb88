package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Store lazily loads and memoizes the cache files under a data directory.
// A Store is NOT safe for concurrent use; callers that share one across
// goroutines must serialize access themselves.
type Store struct {
	dir  string
	warm *WarmSource

	ratings  *Ratings
	injuries *Injuries
	rest     *Rest
	starTax  *StarTax
	news     *News
	odds     *Odds
}

// NewStore creates a store over a data directory. warm may be nil.
func NewStore(dir string, warm *WarmSource) *Store {
	return &Store{dir: dir, warm: warm}
}

// Invalidate drops every memoized cache so the next access re-reads from
// disk. The acquisition jobs overwrite the files daily; call this after they
// run.
func (s *Store) Invalidate() {
	s.ratings = nil
	s.injuries = nil
	s.rest = nil
	s.starTax = nil
	s.news = nil
	s.odds = nil
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// Ratings returns the memoized ratings cache, loading it on first use. The
// warm source is tried first; any warm failure falls back to the file.
func (s *Store) Ratings(ctx context.Context) (*Ratings, error) {
	if s.ratings != nil {
		return s.ratings, nil
	}
	if s.warm != nil {
		if r, err := s.warm.Ratings(ctx); err == nil {
			s.ratings = r
			return r, nil
		} else {
			log.Debug().Err(err).Msg("warm ratings miss, falling back to file")
		}
	}
	r, err := LoadRatings(s.path(RatingsFile))
	if err != nil {
		return nil, err
	}
	s.ratings = r
	return r, nil
}

// Injuries returns the memoized injury cache.
func (s *Store) Injuries() (*Injuries, error) {
	if s.injuries != nil {
		return s.injuries, nil
	}
	i, err := LoadInjuries(s.path(InjuriesFile))
	if err != nil {
		return nil, err
	}
	s.injuries = i
	return i, nil
}

// Rest returns the memoized rest-penalty cache.
func (s *Store) Rest() (*Rest, error) {
	if s.rest != nil {
		return s.rest, nil
	}
	r, err := LoadRest(s.path(RestFile))
	if err != nil {
		return nil, err
	}
	s.rest = r
	return r, nil
}

// StarTax returns the memoized star-tax cache.
func (s *Store) StarTax(ctx context.Context) (*StarTax, error) {
	if s.starTax != nil {
		return s.starTax, nil
	}
	if s.warm != nil {
		if st, err := s.warm.StarTax(ctx); err == nil {
			s.starTax = st
			return st, nil
		} else {
			log.Debug().Err(err).Msg("warm star tax miss, falling back to file")
		}
	}
	st, err := LoadStarTax(s.path(StarTaxFile))
	if err != nil {
		return nil, err
	}
	s.starTax = st
	return st, nil
}

// News returns the memoized news cache.
func (s *Store) News(ctx context.Context) (*News, error) {
	if s.news != nil {
		return s.news, nil
	}
	if s.warm != nil {
		if n, err := s.warm.News(ctx); err == nil {
			s.news = n
			return n, nil
		} else {
			log.Debug().Err(err).Msg("warm news miss, falling back to file")
		}
	}
	n, err := LoadNews(s.path(NewsFile))
	if err != nil {
		return nil, err
	}
	s.news = n
	return n, nil
}

// Odds returns the memoized odds cache.
func (s *Store) Odds() (*Odds, error) {
	if s.odds != nil {
		return s.odds, nil
	}
	o, err := LoadOdds(s.path(OddsFile))
	if err != nil {
		return nil, err
	}
	s.odds = o
	return o, nil
}

// Load assembles the full snapshot set for one computation. Ratings are
// required; every situational cache is optional and its absence is logged so
// the engine can degrade per factor.
func (s *Store) Load(ctx context.Context) (*Snapshots, error) {
	ratings, err := s.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("ratings are required: %w", err)
	}

	snaps := &Snapshots{Ratings: ratings}

	if inj, err := s.Injuries(); err != nil {
		log.Warn().Err(err).Msg("injury cache unavailable")
	} else {
		snaps.Injuries = inj
	}
	if rest, err := s.Rest(); err != nil {
		log.Warn().Err(err).Msg("rest cache unavailable")
	} else {
		snaps.Rest = rest
	}
	if st, err := s.StarTax(ctx); err != nil {
		log.Warn().Err(err).Msg("star tax cache unavailable")
	} else {
		snaps.StarTax = st
	}
	if news, err := s.News(ctx); err != nil {
		log.Warn().Err(err).Msg("news cache unavailable")
	} else {
		snaps.News = news
	}
	if odds, err := s.Odds(); err != nil {
		log.Debug().Err(err).Msg("odds cache unavailable")
	} else {
		snaps.Odds = odds
	}

	return snaps, nil
}

// CacheAge describes one cache file's freshness.
type CacheAge struct {
	Name      string        `json:"name"`
	Timestamp time.Time     `json:"timestamp"`
	Age       time.Duration `json:"age"`
	Missing   bool          `json:"missing"`
	Stale     bool          `json:"stale"`
}

// Staleness reports the age of every cache file against a threshold. The
// internal timestamp is preferred; when a cache has none the file mtime is
// used.
func (s *Store) Staleness(ctx context.Context, now time.Time, threshold time.Duration) []CacheAge {
	report := make([]CacheAge, 0, 6)

	add := func(name string, ts time.Time, err error) {
		age := CacheAge{Name: name, Timestamp: ts}
		switch {
		case err != nil:
			age.Missing = true
		case ts.IsZero():
			if fi, statErr := os.Stat(s.path(name)); statErr == nil {
				age.Timestamp = fi.ModTime()
				age.Age = now.Sub(fi.ModTime())
				age.Stale = age.Age > threshold
			} else {
				age.Missing = true
			}
		default:
			age.Age = now.Sub(ts)
			age.Stale = age.Age > threshold
		}
		report = append(report, age)
	}

	if r, err := s.Ratings(ctx); err != nil {
		add(RatingsFile, time.Time{}, err)
	} else {
		add(RatingsFile, r.Timestamp, nil)
	}
	if i, err := s.Injuries(); err != nil {
		add(InjuriesFile, time.Time{}, err)
	} else {
		add(InjuriesFile, i.Timestamp, nil)
	}
	if r, err := s.Rest(); err != nil {
		add(RestFile, time.Time{}, err)
	} else {
		add(RestFile, r.Timestamp, nil)
	}
	if st, err := s.StarTax(ctx); err != nil {
		add(StarTaxFile, time.Time{}, err)
	} else {
		add(StarTaxFile, st.Timestamp, nil)
	}
	if n, err := s.News(ctx); err != nil {
		add(NewsFile, time.Time{}, err)
	} else {
		add(NewsFile, n.Timestamp, nil)
	}
	if _, err := s.Odds(); err != nil {
		add(OddsFile, time.Time{}, err)
	} else {
		add(OddsFile, time.Time{}, nil)
	}

	return report
}
