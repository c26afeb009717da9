package moderation

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name   string
	status Status
	owner  uuid.UUID
	rating int
	food   int
}

func (i item) ModerationStatus() Status { return i.status }

func (i item) SubmittedBy() (uuid.UUID, bool) { return i.owner, i.owner != uuid.Nil }

func (i item) Scores() (int, int) { return i.rating, i.food }

func names(items []item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.name)
	}
	return out
}

func TestInitialStatus(t *testing.T) {
	user := NewCaller(uuid.New(), RoleUser)
	admin := NewCaller(uuid.New(), RoleAdmin)

	_, err := InitialStatus(Anonymous(), false)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	st, err := InitialStatus(user, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	_, err = InitialStatus(user, true)
	assert.ErrorIs(t, err, ErrForbidden)

	st, err = InitialStatus(admin, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	// the public form stays pending for admins too
	st, err = InitialStatus(admin, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)
}

func TestApproveIsAdminOnlyAndIdempotent(t *testing.T) {
	admin := NewCaller(uuid.New(), RoleAdmin)

	_, err := Approve(NewCaller(uuid.New(), RoleUser), StatusPending)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = Approve(Anonymous(), StatusPending)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	st, err := Approve(admin, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	st, err = Approve(admin, st)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)
}

func TestRejectOnlyPending(t *testing.T) {
	admin := NewCaller(uuid.New(), RoleAdmin)

	assert.NoError(t, Reject(admin, StatusPending))
	assert.ErrorIs(t, Reject(admin, StatusApproved), ErrInvalidTransition)
	assert.ErrorIs(t, Reject(NewCaller(uuid.New(), RoleUser), StatusPending), ErrForbidden)
}

func TestTransitionNeverReturnsToPending(t *testing.T) {
	admin := NewCaller(uuid.New(), RoleAdmin)

	_, err := Transition(admin, StatusApproved, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	st, err := Transition(admin, StatusPending, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = Transition(admin, StatusPending, Status("rejected"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Approved ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = ParseStatus("rejected")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNewCallerNormalizesRole(t *testing.T) {
	assert.Equal(t, Anonymous(), NewCaller(uuid.Nil, RoleAdmin))
	assert.Equal(t, RoleUser, NewCaller(uuid.New(), Role("superuser")).Role)
	assert.False(t, Caller{}.Authenticated())
}

func TestFilterVisibility(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	items := []item{
		{name: "a-approved", status: StatusApproved, owner: bob},
		{name: "a-pending", status: StatusPending, owner: alice},
		{name: "b-pending", status: StatusPending, owner: bob},
		{name: "anon-pending", status: StatusPending},
	}

	assert.Equal(t, []string{"a-approved"}, names(Filter(Anonymous(), items, true)))
	assert.Equal(t, []string{"a-approved"}, names(Filter(NewCaller(alice, RoleUser), items, false)))
	assert.Equal(t, []string{"a-approved", "a-pending"}, names(Filter(NewCaller(alice, RoleUser), items, true)))
	assert.Len(t, Filter(NewCaller(uuid.New(), RoleAdmin), items, false), 4)
}

func TestApprovedAlwaysVisible(t *testing.T) {
	approved := item{status: StatusApproved, owner: uuid.New()}
	callers := []Caller{Anonymous(), NewCaller(uuid.New(), RoleUser), NewCaller(uuid.New(), RoleAdmin)}
	for _, c := range callers {
		assert.True(t, Visible(c, approved, false), "role %s", c.Role)
		assert.True(t, Visible(c, approved, true), "role %s", c.Role)
	}
}

func TestPartition(t *testing.T) {
	items := []item{
		{name: "p1", status: StatusPending},
		{name: "a1", status: StatusApproved},
		{name: "p2", status: StatusPending},
	}
	assert.Equal(t, []string{"p1", "p2"}, names(Partition(items, TabPending)))
	assert.Equal(t, []string{"a1"}, names(Partition(items, TabApproved)))
	assert.Len(t, Partition(items, ParseTab("whatever")), 3)
}

func TestSummarizeIgnoresPending(t *testing.T) {
	reviews := []item{
		{status: StatusApproved, rating: 4, food: 5},
		{status: StatusPending, rating: 1, food: 1},
	}
	s := Summarize(reviews)
	require.NotNil(t, s.AverageRating)
	assert.Equal(t, 1, s.Count)
	assert.InDelta(t, 4.0, *s.AverageRating, 1e-9)
	assert.InDelta(t, 5.0, *s.AverageFoodRating, 1e-9)

	rating, food := s.Display()
	assert.Equal(t, "4.0", rating)
	assert.Equal(t, "5.0", food)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize([]item{{status: StatusPending, rating: 3, food: 3}})
	assert.Zero(t, s.Count)
	assert.Nil(t, s.AverageRating)

	rating, food := s.Display()
	assert.Equal(t, "N/A", rating)
	assert.Equal(t, "N/A", food)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}

	p := Paginate(items, 3, 4)
	assert.Equal(t, []int{9}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 9, p.Total)

	p = Paginate(items, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)
	assert.Len(t, p.Items, 9)

	p = Paginate(items, 10, 4)
	assert.Empty(t, p.Items)

	p = Paginate([]int{1, 2, 3}, math.MaxInt64/10+2, 10)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.TotalPages)

	p = Paginate([]int{1, 2, 3}, math.MaxInt, 1)
	assert.Empty(t, p.Items)

	p = Paginate([]int{1, 2, 3}, 1, math.MaxInt)
	assert.Equal(t, []int{1, 2, 3}, p.Items)
	assert.Equal(t, 1, p.TotalPages)

	page, size := NormalizePage(math.MaxInt, 10, 10)
	assert.Equal(t, 10, size)
	assert.Equal(t, math.MaxInt/10, page)

	assert.Equal(t, 0, TotalPages(0, 4))
	assert.Equal(t, 1, TotalPages(4, 4))
	assert.Equal(t, 2, TotalPages(5, 4))
}

func TestMatchesText(t *testing.T) {
	assert.True(t, MatchesText("", "anything"))
	assert.True(t, MatchesText("UNIV", "X University"))
	assert.True(t, MatchesText("city", "X University", "Y City"))
	assert.False(t, MatchesText("z", "X University", "Y City"))
}
