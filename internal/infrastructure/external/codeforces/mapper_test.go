package codeforces

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserDTO_Parsing(t *testing.T) {
	jsonData := `{
		"handle": "student42",
		"firstName": "Aida",
		"country": "Kazakhstan",
		"rating": 1420,
		"maxRating": 1503,
		"rank": "specialist",
		"maxRank": "specialist",
		"registrationTimeSeconds": 1609459200,
		"lastOnlineTimeSeconds": 1767225600
	}`

	var user UserDTO
	err := json.Unmarshal([]byte(jsonData), &user)
	assert.NoError(t, err)

	assert.Equal(t, "student42", user.Handle)
	assert.Equal(t, "Aida", user.FirstName)
	assert.Equal(t, 1420, user.Rating)
	assert.Equal(t, int64(1609459200), user.RegistrationTimeSeconds)
}

func TestMapper_ToUserInfo_Defaults(t *testing.T) {
	m := NewMapper()

	// A brand-new account: no rating, no rank, no last-online time.
	info := m.ToUserInfo(&UserDTO{Handle: "newbie"})

	assert.Equal(t, "newbie", info.Handle)
	assert.Equal(t, 0, info.Rating)
	assert.Equal(t, "unrated", info.Rank)
	assert.Equal(t, "unrated", info.MaxRank)
	assert.True(t, info.RegisteredAt.IsZero())
	assert.True(t, info.LastOnlineAt.IsZero())
	assert.Equal(t, "newbie", info.FullName())
}

func TestMapper_ToUserInfo_FullName(t *testing.T) {
	m := NewMapper()

	info := m.ToUserInfo(&UserDTO{Handle: "x", FirstName: "Alikhan", LastName: "Seri"})
	assert.Equal(t, "Alikhan Seri", info.FullName())

	info = m.ToUserInfo(&UserDTO{Handle: "x", FirstName: "Alikhan"})
	assert.Equal(t, "Alikhan", info.FullName())
}

func TestMapper_ToSubmission_FallsBackToSubmissionContestID(t *testing.T) {
	m := NewMapper()

	sub := m.ToSubmission(SubmissionDTO{
		ID:                  7,
		ContestID:           1500,
		CreationTimeSeconds: 1767225600,
		Problem:             ProblemDTO{Index: "B", Name: "Orphan Problem"},
		Verdict:             "OK",
	})

	assert.Equal(t, 1500, sub.ContestID)
	assert.Equal(t, "B", sub.Index)
	assert.Equal(t, time.Unix(1767225600, 0), sub.SubmittedAt)
}

func TestMapper_ToSubmission_MissingVerdictNotAccepted(t *testing.T) {
	m := NewMapper()

	sub := m.ToSubmission(SubmissionDTO{
		Problem: ProblemDTO{ContestID: 1, Index: "A"},
	})

	assert.False(t, sub.Verdict.IsAccepted())
	assert.True(t, sub.SubmittedAt.IsZero())
}

func TestMapper_ToContestResults_PreservesOrder(t *testing.T) {
	m := NewMapper()

	results := m.ToContestResults([]RatingChangeDTO{
		{ContestID: 3, NewRating: 1500},
		{ContestID: 1, NewRating: 1200},
		{ContestID: 2, NewRating: 1350},
	})

	assert.Len(t, results, 3)
	assert.Equal(t, 3, results[0].ContestID)
	assert.Equal(t, 1, results[1].ContestID)
	assert.Equal(t, 2, results[2].ContestID)
}
