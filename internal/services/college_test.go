package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/princeprakhar/hostelwise-backend/internal/cache"
	"github.com/princeprakhar/hostelwise-backend/internal/models"
	"github.com/princeprakhar/hostelwise-backend/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collegeNames(colleges []models.College) []string {
	out := make([]string, 0, len(colleges))
	for _, c := range colleges {
		out = append(out, c.Name)
	}
	return out
}

func TestAdminAddedCollegeIsImmediatelyPublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	college, err := f.colleges.AdminAdd(ctx, f.admin, models.CollegeRequest{Name: "X University", Location: "Y City"})
	require.NoError(t, err)
	assert.Equal(t, moderation.StatusApproved, college.Status)

	list, err := f.colleges.List(ctx, moderation.Anonymous(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"X University"}, collegeNames(list))
	assert.Empty(t, f.notifier.submissions)
}

func TestSubmittedCollegeWaitsForModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	college, err := f.colleges.Submit(ctx, f.alice, models.CollegeRequest{Name: "  Pending Institute ", Location: "Z Town"})
	require.NoError(t, err)
	assert.Equal(t, moderation.StatusPending, college.Status)
	assert.Equal(t, "Pending Institute", college.Name)
	assert.Equal(t, []string{"college:Pending Institute"}, f.notifier.submissions)

	for _, caller := range []moderation.Caller{moderation.Anonymous(), f.alice, f.bob} {
		list, err := f.colleges.List(ctx, caller, "")
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = f.colleges.Get(ctx, caller, college.ID)
		assert.ErrorIs(t, err, ErrCollegeNotFound)
	}

	pending, err := f.colleges.AdminList(ctx, f.admin, moderation.TabPending, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pending Institute"}, collegeNames(pending))

	approved, err := f.colleges.AdminList(ctx, f.admin, moderation.TabApproved, "")
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestSubmitRequiresSignIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.colleges.Submit(context.Background(), moderation.Anonymous(), models.CollegeRequest{Name: "Nope", Location: "Nowhere"})
	assert.ErrorIs(t, err, moderation.ErrUnauthenticated)

	_, err = f.colleges.AdminAdd(context.Background(), f.alice, models.CollegeRequest{Name: "Nope", Location: "Nowhere"})
	assert.ErrorIs(t, err, moderation.ErrForbidden)
}

func TestSubmitValidatesTrimmedFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.colleges.Submit(context.Background(), f.alice, models.CollegeRequest{Name: "  A  ", Location: "Somewhere"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
}

func TestCollegeApproveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	college, err := f.colleges.Submit(ctx, f.alice, models.CollegeRequest{Name: "Late College", Location: "Y City"})
	require.NoError(t, err)

	_, err = f.colleges.Approve(ctx, f.alice, college.ID)
	assert.ErrorIs(t, err, moderation.ErrForbidden)

	for i := 0; i < 2; i++ {
		approved, err := f.colleges.Approve(ctx, f.admin, college.ID)
		require.NoError(t, err)
		assert.Equal(t, moderation.StatusApproved, approved.Status)
	}

	got, err := f.colleges.Get(ctx, moderation.Anonymous(), college.ID)
	require.NoError(t, err)
	assert.Equal(t, "Late College", got.Name)
}

func TestCollegeListSearchAndHostelCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alpha := f.approvedCollege(t, "Alpha Institute")
	f.approvedCollege(t, "Beta University")

	f.approvedHostel(t, alpha.ID, "Alpha House")
	f.approvedHostel(t, alpha.ID, "Alpha Annex")
	_, err := f.hostels.Submit(ctx, f.alice, alpha.ID, hostelRequest("Alpha Pending"))
	require.NoError(t, err)

	list, err := f.colleges.List(ctx, moderation.Anonymous(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"Alpha Institute", "Beta University"}, collegeNames(list))
	assert.EqualValues(t, 2, list[0].HostelCount)
	assert.EqualValues(t, 0, list[1].HostelCount)

	adminList, err := f.colleges.List(ctx, f.admin, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, adminList[0].HostelCount)

	bySearch, err := f.colleges.List(ctx, moderation.Anonymous(), "UNIV")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta University"}, collegeNames(bySearch))

	byLocation, err := f.colleges.List(ctx, moderation.Anonymous(), "y city")
	require.NoError(t, err)
	assert.Len(t, byLocation, 2)
}

func TestPublicCollegeListIsCachedAndInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.approvedCollege(t, "First College")
	_, err := f.colleges.List(ctx, moderation.Anonymous(), "")
	require.NoError(t, err)
	assert.True(t, f.cache.has(cache.PublicCollegesKey))

	f.approvedCollege(t, "Second College")
	assert.False(t, f.cache.has(cache.PublicCollegesKey))

	list, err := f.colleges.List(ctx, moderation.Anonymous(), "")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCollegeUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	college := f.approvedCollege(t, "Old Name")

	name := "New Name"
	_, err := f.colleges.Update(ctx, f.alice, college.ID, models.UpdateCollegeRequest{Name: &name})
	assert.ErrorIs(t, err, moderation.ErrForbidden)

	updated, err := f.colleges.Update(ctx, f.admin, college.ID, models.UpdateCollegeRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)

	pending := "pending"
	_, err = f.colleges.Update(ctx, f.admin, college.ID, models.UpdateCollegeRequest{Status: &pending})
	assert.ErrorIs(t, err, moderation.ErrInvalidTransition)

	_, err = f.colleges.Update(ctx, f.admin, uuid.New(), models.UpdateCollegeRequest{Name: &name})
	assert.ErrorIs(t, err, ErrCollegeNotFound)
}

func TestCollegeDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	college := f.approvedCollege(t, "Doomed College")
	hostel := f.approvedHostel(t, college.ID, "Doomed Hostel")
	f.review(t, f.alice, hostel.ID, 3, 3, true)

	assert.ErrorIs(t, f.colleges.Delete(ctx, f.alice, college.ID), moderation.ErrForbidden)
	require.NoError(t, f.colleges.Delete(ctx, f.admin, college.ID))

	var hostels, reviews int64
	f.db.Model(&models.Hostel{}).Count(&hostels)
	f.db.Model(&models.Review{}).Count(&reviews)
	assert.Zero(t, hostels)
	assert.Zero(t, reviews)

	assert.ErrorIs(t, f.colleges.Delete(ctx, f.admin, college.ID), ErrCollegeNotFound)
}
