package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
	"github.com/cf-hub/cf-progress-hub/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

type fakeStudentRepo struct {
	students map[string]*student.Student
}

func newFakeStudentRepo(students ...*student.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: make(map[string]*student.Student)}
	for _, s := range students {
		repo.students[s.ID] = s
	}
	return repo
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student) error {
	for _, existing := range r.students {
		if existing.Handle.Equal(s.Handle) {
			return student.ErrStudentAlreadyExists
		}
	}
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	s, ok := r.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) GetByHandle(_ context.Context, handle student.Handle) (*student.Student, error) {
	for _, s := range r.students {
		if s.Handle.Equal(handle) {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *fakeStudentRepo) Update(_ context.Context, s *student.Student) error {
	if _, ok := r.students[s.ID]; !ok {
		return student.ErrStudentNotFound
	}
	r.students[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.students[id]; !ok {
		return student.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) GetAll(_ context.Context, opts student.ListOptions) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(r.students))
	for _, s := range r.students {
		if opts.OnlyEmailEnabled && !s.EmailEnabled {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int, error) {
	return len(r.students), nil
}

func (r *fakeStudentRepo) ExistsByHandle(_ context.Context, handle student.Handle) (bool, error) {
	for _, s := range r.students {
		if s.Handle.Equal(handle) {
			return true, nil
		}
	}
	return false, nil
}

type fakeProfileStore struct {
	saved   map[string]*profile.Analytics
	deletes []string
	saveErr error
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{saved: make(map[string]*profile.Analytics)}
}

func (s *fakeProfileStore) Save(_ context.Context, studentID string, a *profile.Analytics) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[studentID] = a
	return nil
}

func (s *fakeProfileStore) Get(_ context.Context, studentID string) (*profile.Analytics, error) {
	a, ok := s.saved[studentID]
	if !ok {
		return nil, errors.New("analytics not found")
	}
	return a, nil
}

func (s *fakeProfileStore) Delete(_ context.Context, studentID string) error {
	s.deletes = append(s.deletes, studentID)
	delete(s.saved, studentID)
	return nil
}

type fakeJudge struct {
	info       *profile.UserInfo
	infoErr    error
	subs       []profile.Submission
	subsErr    error
	history    []profile.ContestResult
	historyErr error
}

func (j *fakeJudge) UserInfo(_ context.Context, handle string) (*profile.UserInfo, error) {
	if j.infoErr != nil {
		return nil, j.infoErr
	}
	if j.info != nil {
		return j.info, nil
	}
	return &profile.UserInfo{Handle: handle}, nil
}

func (j *fakeJudge) UserSubmissions(_ context.Context, _ string, _, _ int) ([]profile.Submission, error) {
	return j.subs, j.subsErr
}

func (j *fakeJudge) UserRatingHistory(_ context.Context, _ string) ([]profile.ContestResult, error) {
	if j.historyErr != nil {
		return nil, j.historyErr
	}
	return j.history, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func testStudent(t *testing.T, id string, handle student.Handle) *student.Student {
	t.Helper()
	st, err := student.NewStudent(student.NewStudentParams{
		ID:     id,
		Handle: handle,
		Name:   "Test Student",
	})
	assert.NoError(t, err)
	return st
}

func testHandler(repo student.Repository, store ProfileStore, judge JudgeClient) *SyncProfileHandler {
	cfg := DefaultSyncProfileHandlerConfig()
	cfg.Location = time.UTC
	return NewSyncProfileHandler(repo, store, judge, nil, cfg)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestSyncProfile_BuildsAnalytics(t *testing.T) {
	st := testStudent(t, "id-1", "student42")
	repo := newFakeStudentRepo(st)
	store := newFakeProfileStore()

	at := time.Now().Add(-48 * time.Hour)
	judge := &fakeJudge{
		info: &profile.UserInfo{Handle: "student42", Rating: 1400},
		subs: []profile.Submission{
			{ContestID: 1, Index: "A", Verdict: profile.VerdictOK, Rating: 800, Tags: []string{"math"}, SubmittedAt: at},
			{ContestID: 1, Index: "A", Verdict: profile.VerdictOK, Rating: 800, Tags: []string{"math"}, SubmittedAt: at.Add(time.Hour)},
			{ContestID: 2, Index: "B", Verdict: profile.VerdictWrongAnswer, SubmittedAt: at},
		},
		history: []profile.ContestResult{
			{ContestID: 1, NewRating: 1300},
			{ContestID: 2, NewRating: 1400},
		},
	}

	result, err := testHandler(repo, store, judge).Handle(context.Background(), SyncProfileCommand{StudentID: "id-1"})

	assert.NoError(t, err)
	assert.False(t, result.RatingHistoryDegraded)
	assert.Equal(t, 1, result.Analytics.SolvedCount)
	assert.Equal(t, 800, result.Analytics.AverageRating)
	assert.Equal(t, 1400, result.Analytics.RatingStats.Current)
	assert.Equal(t, 2, result.Analytics.RatingStats.Contests)
	assert.NotNil(t, result.Analytics.LastActivityAt)

	// The analytics must be persisted and the student stamped.
	assert.Contains(t, store.saved, "id-1")
	assert.False(t, repo.students["id-1"].NeverSynced())
}

func TestSyncProfile_UserInfoFailureAborts(t *testing.T) {
	st := testStudent(t, "id-1", "ghost")
	repo := newFakeStudentRepo(st)
	judge := &fakeJudge{infoErr: errors.New("handle not found")}

	_, err := testHandler(repo, newFakeProfileStore(), judge).Handle(context.Background(), SyncProfileCommand{StudentID: "id-1"})

	assert.Error(t, err)
	var syncErr *SyncError
	assert.ErrorAs(t, err, &syncErr)
	assert.Equal(t, StageUserInfo, syncErr.Stage)
	assert.True(t, repo.students["id-1"].NeverSynced(), "a failed sync must not stamp the student")
}

func TestSyncProfile_SubmissionsFailureAborts(t *testing.T) {
	st := testStudent(t, "id-1", "student42")
	repo := newFakeStudentRepo(st)
	judge := &fakeJudge{subsErr: errors.New("timeout")}

	_, err := testHandler(repo, newFakeProfileStore(), judge).Handle(context.Background(), SyncProfileCommand{StudentID: "id-1"})

	var syncErr *SyncError
	assert.ErrorAs(t, err, &syncErr)
	assert.Equal(t, StageSubmissions, syncErr.Stage)
}

func TestSyncProfile_RatingHistoryFailureDegrades(t *testing.T) {
	st := testStudent(t, "id-1", "unratednewbie")
	repo := newFakeStudentRepo(st)
	store := newFakeProfileStore()
	judge := &fakeJudge{historyErr: errors.New("user has no rating history")}

	result, err := testHandler(repo, store, judge).Handle(context.Background(), SyncProfileCommand{StudentID: "id-1"})

	assert.NoError(t, err)
	assert.True(t, result.RatingHistoryDegraded)
	assert.Empty(t, result.Analytics.RatingHistory)
	assert.Equal(t, profile.RatingStats{}, result.Analytics.RatingStats)
	assert.Contains(t, store.saved, "id-1")
}

func TestSyncProfile_HandleChangeReplacesAnalytics(t *testing.T) {
	st := testStudent(t, "id-1", "oldhandle")
	st.SyncedWith(time.Now().Add(-time.Hour))
	assert.NoError(t, st.ChangeHandle("newhandle"))
	assert.True(t, st.HandleChangedSinceSync())

	repo := newFakeStudentRepo(st)
	store := newFakeProfileStore()
	store.saved["id-1"] = &profile.Analytics{Handle: "oldhandle"}

	result, err := testHandler(repo, store, &fakeJudge{}).Handle(context.Background(), SyncProfileCommand{StudentID: "id-1"})

	assert.NoError(t, err)
	assert.True(t, result.FullReplace)
	assert.Contains(t, store.deletes, "id-1")
	assert.Equal(t, "newhandle", store.saved["id-1"].Handle)
	assert.False(t, repo.students["id-1"].HandleChangedSinceSync())
}

func TestSyncProfile_SyncByHandle(t *testing.T) {
	st := testStudent(t, "id-1", "student42")
	repo := newFakeStudentRepo(st)

	result, err := testHandler(repo, newFakeProfileStore(), &fakeJudge{}).Handle(context.Background(), SyncProfileCommand{Handle: "student42"})

	assert.NoError(t, err)
	assert.Equal(t, "id-1", result.StudentID)
}

func TestSyncProfile_ValidatesCommand(t *testing.T) {
	_, err := testHandler(newFakeStudentRepo(), newFakeProfileStore(), &fakeJudge{}).Handle(context.Background(), SyncProfileCommand{})

	assert.Error(t, err)
}

func TestSyncAll_CollectsFailures(t *testing.T) {
	good := testStudent(t, "id-good", "goodhandle")
	bad := testStudent(t, "id-bad", "badhandle")
	repo := newFakeStudentRepo(good, bad)
	store := newFakeProfileStore()

	judge := &selectiveJudge{failHandle: "badhandle"}
	syncOne := testHandler(repo, store, judge)
	handler := NewSyncAllHandler(repo, syncOne, nil)

	result, err := handler.Handle(context.Background(), SyncAllCommand{Concurrency: 2})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, student.Handle("badhandle"), result.Failures[0].Handle)
}

// selectiveJudge fails user.info for one handle and succeeds elsewhere.
type selectiveJudge struct {
	failHandle string
}

func (j *selectiveJudge) UserInfo(_ context.Context, handle string) (*profile.UserInfo, error) {
	if handle == j.failHandle {
		return nil, errors.New("handle not found")
	}
	return &profile.UserInfo{Handle: handle}, nil
}

func (j *selectiveJudge) UserSubmissions(_ context.Context, _ string, _, _ int) ([]profile.Submission, error) {
	return nil, nil
}

func (j *selectiveJudge) UserRatingHistory(_ context.Context, _ string) ([]profile.ContestResult, error) {
	return nil, nil
}
