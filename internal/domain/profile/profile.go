// Package profile contains the analytics domain for a student's judge
// activity: submissions, solved problems, rating history, streaks and
// the various distributions derived from them. Everything here is pure
// computation over in-memory data; fetching and storage live elsewhere.
package profile

import "time"

// ══════════════════════════════════════════════════════════════════════════════
// VERDICT
// ══════════════════════════════════════════════════════════════════════════════

// Verdict is the judge's verdict string for a submission.
type Verdict string

const (
	// VerdictOK marks an accepted submission. Only these count as solves.
	VerdictOK Verdict = "OK"

	VerdictWrongAnswer       Verdict = "WRONG_ANSWER"
	VerdictTimeLimit         Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimit       Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError      Verdict = "RUNTIME_ERROR"
	VerdictCompilationError  Verdict = "COMPILATION_ERROR"
	VerdictChallenged        Verdict = "CHALLENGED"
	VerdictSkipped           Verdict = "SKIPPED"
	VerdictTesting           Verdict = "TESTING"
	VerdictPartial           Verdict = "PARTIAL"
	VerdictIdlenessLimit     Verdict = "IDLENESS_LIMIT_EXCEEDED"
	VerdictSecurityViolation Verdict = "SECURITY_VIOLATED"
)

// IsAccepted reports whether the verdict counts as a solve.
func (v Verdict) IsAccepted() bool {
	return v == VerdictOK
}

// ══════════════════════════════════════════════════════════════════════════════
// CORE TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Submission is a single submission pulled from the judge.
type Submission struct {
	// ID is the judge's submission identifier.
	ID int64

	// ContestID identifies the contest the problem belongs to.
	ContestID int

	// Index is the problem's letter index within the contest ("A", "B2").
	Index string

	// Name is the problem title.
	Name string

	// Verdict is the judge's verdict. May be empty while still testing.
	Verdict Verdict

	// Rating is the problem's difficulty rating. Zero means unrated;
	// real ratings start at 800 so the values never collide.
	Rating int

	// Tags are the problem's topic tags in judge order.
	Tags []string

	// ProgrammingLanguage is the submission language as reported.
	ProgrammingLanguage string

	// SubmittedAt is when the submission was made.
	SubmittedAt time.Time
}

// ProblemKey returns the identity used to deduplicate solves. Two accepted
// submissions to the same (contest, index) pair are one solved problem.
func (s Submission) ProblemKey() ProblemKey {
	return ProblemKey{ContestID: s.ContestID, Index: s.Index}
}

// ProblemKey uniquely identifies a problem across contests.
type ProblemKey struct {
	ContestID int
	Index     string
}

// SolvedProblem is a deduplicated accepted problem.
type SolvedProblem struct {
	ContestID int
	Index     string
	Name      string

	// Rating is the problem difficulty, zero when unrated.
	Rating int

	Tags []string

	// SolvedAt is the timestamp of the submission that first appeared for
	// this problem in the input.
	SolvedAt time.Time
}

// IsRated reports whether the problem carries a difficulty rating.
func (p SolvedProblem) IsRated() bool {
	return p.Rating > 0
}

// ContestResult is one rated contest appearance from the rating history.
type ContestResult struct {
	ContestID   int
	ContestName string
	Rank        int
	OldRating   int
	NewRating   int
	RatedAt     time.Time
}

// Delta returns the rating change from this contest.
func (c ContestResult) Delta() int {
	return c.NewRating - c.OldRating
}

// UserInfo is the judge's public profile for a handle.
type UserInfo struct {
	Handle    string
	FirstName string
	LastName  string
	Country   string
	City      string
	Avatar    string

	// Rating is the current rating, zero when the user is unrated.
	Rating int

	// MaxRating is the all-time peak rating, zero when unrated.
	MaxRating int

	// Rank and MaxRank are the judge's title strings ("expert", "master").
	Rank    string
	MaxRank string

	RegisteredAt time.Time
	LastOnlineAt time.Time
}

// FullName joins the profile's name parts, falling back to the handle.
func (u UserInfo) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Handle
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED ANALYTICS
// ══════════════════════════════════════════════════════════════════════════════

// RatingStats summarizes a contest rating history.
type RatingStats struct {
	// Min is the lowest post-contest rating, 0 with no history.
	Min int

	// Max is the highest post-contest rating, 0 with no history.
	Max int

	// Current is the rating after the last entry in the supplied order.
	Current int

	// Contests is the number of rated appearances.
	Contests int
}

// RatingBucket is one bar of the solved-problem difficulty distribution.
type RatingBucket struct {
	// Range is the bucket label ("800-999", "2400+").
	Range string

	// Count is how many rated solved problems fall in the bucket.
	Count int
}

// TagCount is one entry of the tag distribution.
type TagCount struct {
	Tag   string
	Count int
}

// MonthlySolved is the solved-problem count for one calendar month,
// broken down by difficulty band. Unlike the difficulty distribution,
// the monthly view keeps a band for unrated problems.
type MonthlySolved struct {
	// Month is the "2006-01" key.
	Month string

	// Count is the total solves in the month.
	Count int

	// Bands maps band label to count. Labels are the BandFor labels.
	Bands map[string]int
}

// ActivityStats is the streak summary over a submission history.
type ActivityStats struct {
	// CurrentStreak is the run of consecutive active days ending today or
	// yesterday. Zero when neither day has an accepted submission.
	CurrentStreak int

	// LongestStreak is the longest run of consecutive active days ever.
	LongestStreak int

	// LastActivityAt is the most recent submission time, nil with no
	// submissions.
	LastActivityAt *time.Time
}

// Analytics is the full derived profile stored after a sync.
type Analytics struct {
	Handle string
	User   UserInfo

	SolvedProblems []SolvedProblem
	SolvedCount    int

	// AverageRating is the mean difficulty of rated solves, rounded to the
	// nearest integer. Zero when no rated solves exist.
	AverageRating int

	RatingHistory []ContestResult
	RatingStats   RatingStats

	Distribution []RatingBucket
	TopTags      []TagCount
	Monthly      []MonthlySolved

	CurrentStreak  int
	LongestStreak  int
	LastActivityAt *time.Time

	SyncedAt time.Time
}
