package rates

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrNoVersion        = errors.New("no rate version in force")
	ErrDuplicateVersion = errors.New("duplicate rate version")
	ErrEmptySchedule    = errors.New("rate schedule has no versions")
)

// Schedule is an immutable, effective-dated list of rate versions. A version
// stays in force until the next one's EffectiveFrom.
type Schedule struct {
	versions []Configuration
}

// NewSchedule validates every version and orders them by EffectiveFrom.
func NewSchedule(versions ...Configuration) (*Schedule, error) {
	if len(versions) == 0 {
		return nil, ErrEmptySchedule
	}

	sorted := make([]Configuration, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom)
	})

	seen := make(map[string]bool, len(sorted))
	for i, v := range sorted {
		if v.Version == "" {
			return nil, fmt.Errorf("rate version at %s has no name", v.EffectiveFrom.Format("2006-01-02"))
		}
		if seen[v.Version] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVersion, v.Version)
		}
		seen[v.Version] = true

		if err := v.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && v.EffectiveFrom.Equal(sorted[i-1].EffectiveFrom) {
			return nil, fmt.Errorf("rate versions %s and %s share effective date %s",
				sorted[i-1].Version, v.Version, v.EffectiveFrom.Format("2006-01-02"))
		}
	}

	return &Schedule{versions: sorted}, nil
}

// At returns the version in force at t.
func (s *Schedule) At(t time.Time) (Configuration, error) {
	idx := sort.Search(len(s.versions), func(i int) bool {
		return s.versions[i].EffectiveFrom.After(t)
	})
	if idx == 0 {
		return Configuration{}, fmt.Errorf("%w at %s", ErrNoVersion, t.Format(time.RFC3339))
	}
	return s.versions[idx-1], nil
}

// Version looks a version up by name.
func (s *Schedule) Version(name string) (Configuration, error) {
	for _, v := range s.versions {
		if v.Version == name {
			return v, nil
		}
	}
	return Configuration{}, fmt.Errorf("%w: version %q not found", ErrNoVersion, name)
}

// Versions returns a copy of all versions, oldest first.
func (s *Schedule) Versions() []Configuration {
	out := make([]Configuration, len(s.versions))
	copy(out, s.versions)
	return out
}
