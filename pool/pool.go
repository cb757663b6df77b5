// Package pool picks a reply file from the three verdict directories.
package pool

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Verdict identifies one of the three pools.
type Verdict int

const (
	Yes Verdict = iota
	Maybe
	No
)

func (v Verdict) String() string {
	switch v {
	case Yes:
		return "yes"
	case Maybe:
		return "maybe"
	case No:
		return "no"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

var (
	// ErrPathInvalid is returned by New when a pool path is not a directory.
	ErrPathInvalid = errors.New("pool path is not a directory")
	// ErrEmptyPool matches every *EmptyPoolError.
	ErrEmptyPool = errors.New("pool is empty")
)

// EmptyPoolError reports a picked directory with no usable entries.
type EmptyPoolError struct {
	Dir string
}

func (e *EmptyPoolError) Error() string {
	return fmt.Sprintf("no files in %s", e.Dir)
}

func (e *EmptyPoolError) Is(target error) bool {
	return target == ErrEmptyPool
}

// Set holds the three pool directories. It is immutable and safe for concurrent use.
type Set struct {
	dirs [3]string
	draw func() uint64
	intn func(n int) int
}

// Option customises a Set.
type Option func(*Set)

// WithRand replaces the random source, mainly for tests. r must not be shared
// across goroutines.
func WithRand(r *rand.Rand) Option {
	return func(s *Set) {
		s.draw = r.Uint64
		s.intn = r.IntN
	}
}

// New は3つのディレクトリが存在することを確認して Set を作成します。
func New(yes, maybe, no string, opts ...Option) (*Set, error) {
	s := &Set{
		dirs: [3]string{yes, maybe, no},
		draw: rand.Uint64,
		intn: rand.IntN,
	}
	for _, dir := range s.dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return nil, errors.Wrapf(ErrPathInvalid, "`%s`", dir)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory backing a verdict, or "" for an unknown verdict.
func (s *Set) Dir(v Verdict) string {
	if v < Yes || v > No {
		return ""
	}
	return s.dirs[v]
}

// Pick returns the path of a randomly chosen entry.
func (s *Set) Pick() (string, error) {
	_, path, err := s.PickVerdict()
	return path, err
}

// PickVerdict chooses a verdict uniformly, then an entry of that verdict's
// directory uniformly. Directory listings are read on every call.
func (s *Set) PickVerdict() (Verdict, string, error) {
	v := Verdict(s.draw() % 3)
	dir := s.dirs[v]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return v, "", errors.Wrapf(err, "read pool %s", dir)
	}

	children := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, err := e.Info(); err != nil {
			continue
		}
		children = append(children, filepath.Join(dir, e.Name()))
	}
	if len(children) == 0 {
		return v, "", &EmptyPoolError{Dir: dir}
	}
	return v, children[s.intn(len(children))], nil
}
