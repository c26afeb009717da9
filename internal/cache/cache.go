// Package cache holds read-through caching for derived values: public college
// listings, per-college hostel counts and per-hostel review stats. A miss is
// never an error for callers; the database stays the source of truth.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrCacheMiss = errors.New("key not found in cache")

type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

const (
	PublicCollegesKey = "colleges:public"
	collegePrefix     = "college:"
	hostelPrefix      = "hostel:"
)

func CollegeHostelCountKey(collegeID uuid.UUID) string {
	return fmt.Sprintf("%s%s:hostel_count", collegePrefix, collegeID)
}

func HostelStatsKey(hostelID uuid.UUID) string {
	return fmt.Sprintf("%s%s:review_stats", hostelPrefix, hostelID)
}

// CollegePrefix covers every key derived from one college.
func CollegePrefix(collegeID uuid.UUID) string {
	return fmt.Sprintf("%s%s:", collegePrefix, collegeID)
}

// Noop is used when no REDIS_URL is configured. Every read misses.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, interface{}) error { return ErrCacheMiss }

func (Noop) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }

func (Noop) DeletePrefix(context.Context, string) error { return nil }

func (Noop) Close() error { return nil }
