package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/cache"
	"github.com/princeprakhar/hostelwise-backend/internal/database"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared", name)
	db, err := database.Open(dsn, gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// memCache is an in-process cache.Cache for asserting invalidation.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (m *memCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *memCache) Close() error { return nil }

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type decision struct {
	email    string
	hostel   string
	approved bool
}

type recordingNotifier struct {
	mu          sync.Mutex
	submissions []string
	decisions   []decision
}

func (n *recordingNotifier) SubmissionReceived(kind, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submissions = append(n.submissions, kind+":"+name)
}

func (n *recordingNotifier) ReviewDecision(email, hostelName string, approved bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decisions = append(n.decisions, decision{email: email, hostel: hostelName, approved: approved})
}

type fixture struct {
	db       *gorm.DB
	cache    *memCache
	notifier *recordingNotifier
	colleges *CollegeService
	hostels  *HostelService
	reviews  *ReviewService
	admin    moderation.Caller
	alice    moderation.Caller
	bob      moderation.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	c := newMemCache()
	n := &recordingNotifier{}
	hostels := NewHostelService(db, c, n, 4)

	return &fixture{
		db:       db,
		cache:    c,
		notifier: n,
		colleges: NewCollegeService(db, c, time.Minute, n),
		hostels:  hostels,
		reviews:  NewReviewService(db, hostels, c, time.Minute, n, 10),
		admin:    createUser(t, db, "Admin Person", moderation.RoleAdmin),
		alice:    createUser(t, db, "Alice Student", moderation.RoleUser),
		bob:      createUser(t, db, "Bob Student", moderation.RoleUser),
	}
}

func createUser(t *testing.T, db *gorm.DB, fullName string, role moderation.Role) moderation.Caller {
	t.Helper()

	user := models.User{
		Email:    strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@example.com",
		Password: "password123",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Profile{ID: user.ID, FullName: fullName, Role: role}).Error)
	return moderation.NewCaller(user.ID, role)
}

func (f *fixture) approvedCollege(t *testing.T, name string) *models.College {
	t.Helper()
	college, err := f.colleges.AdminAdd(context.Background(), f.admin, models.CollegeRequest{Name: name, Location: "Y City"})
	require.NoError(t, err)
	return college
}

func hostelRequest(name string) models.HostelRequest {
	return models.HostelRequest{
		Name:        name,
		Type:        models.HostelTypeBoys,
		Location:    "North campus",
		Distance:    "500 m",
		Capacity:    50,
		Rent:        "4000/month",
		Description: "Quiet hostel close to the library.",
		MessFood:    models.MessFoodVeg,
		WardenName:  "R. Sharma",
		WardenPhone: "+91 99999 00000",
		WardenEmail: "warden@example.com",
		Amenities:   []string{"WiFi", "Laundry"},
	}
}

func (f *fixture) approvedHostel(t *testing.T, collegeID uuid.UUID, name string) *models.Hostel {
	t.Helper()
	req := hostelRequest(name)
	req.CollegeID = collegeID
	hostel, err := f.hostels.AdminAdd(context.Background(), f.admin, req)
	require.NoError(t, err)
	return hostel
}

func (f *fixture) review(t *testing.T, author moderation.Caller, hostelID uuid.UUID, rating, food int, approve bool) *models.ReviewResponse {
	t.Helper()
	ctx := context.Background()
	review, err := f.reviews.Create(ctx, author, models.CreateReviewRequest{
		HostelID:   hostelID,
		Rating:     rating,
		FoodRating: food,
		Content:    fmt.Sprintf("Rated %d", rating),
	})
	require.NoError(t, err)
	if approve {
		review, err = f.reviews.Approve(ctx, f.admin, review.ID)
		require.NoError(t, err)
	}
	return review
}
