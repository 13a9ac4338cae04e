// Package codeforces implements the Codeforces public API client.
// This package handles all communication with the judge, including fetching
// user profiles, submission histories, rating changes and contest lists.
package codeforces

import "encoding/json"

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE ENVELOPE
// ══════════════════════════════════════════════════════════════════════════════

// envelope is the outer shape of every Codeforces API response.
// Status is "OK" with a result payload, or "FAILED" with a comment.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

const statusOK = "OK"

// ══════════════════════════════════════════════════════════════════════════════
// DATA TRANSFER OBJECTS
// ══════════════════════════════════════════════════════════════════════════════
// Every field the API sends is treated as optional. The mapper applies
// defaults; DTOs never reach the domain layer directly.

// UserDTO mirrors the user object from user.info.
type UserDTO struct {
	Handle                  string `json:"handle"`
	FirstName               string `json:"firstName,omitempty"`
	LastName                string `json:"lastName,omitempty"`
	Country                 string `json:"country,omitempty"`
	City                    string `json:"city,omitempty"`
	Organization            string `json:"organization,omitempty"`
	Rating                  int    `json:"rating,omitempty"`
	MaxRating               int    `json:"maxRating,omitempty"`
	Rank                    string `json:"rank,omitempty"`
	MaxRank                 string `json:"maxRank,omitempty"`
	Avatar                  string `json:"avatar,omitempty"`
	TitlePhoto              string `json:"titlePhoto,omitempty"`
	Contribution            int    `json:"contribution,omitempty"`
	FriendOfCount           int    `json:"friendOfCount,omitempty"`
	RegistrationTimeSeconds int64  `json:"registrationTimeSeconds,omitempty"`
	LastOnlineTimeSeconds   int64  `json:"lastOnlineTimeSeconds,omitempty"`
}

// ProblemDTO mirrors the problem object embedded in submissions and the
// problemset listing.
type ProblemDTO struct {
	ContestID int      `json:"contestId,omitempty"`
	Index     string   `json:"index,omitempty"`
	Name      string   `json:"name,omitempty"`
	Type      string   `json:"type,omitempty"`
	Points    float64  `json:"points,omitempty"`
	Rating    int      `json:"rating,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// PartyDTO mirrors the author party of a submission.
type PartyDTO struct {
	ContestID       int         `json:"contestId,omitempty"`
	Members         []MemberDTO `json:"members,omitempty"`
	ParticipantType string      `json:"participantType,omitempty"`
	Ghost           bool        `json:"ghost,omitempty"`
}

// MemberDTO is one member of a party.
type MemberDTO struct {
	Handle string `json:"handle,omitempty"`
}

// SubmissionDTO mirrors one entry of user.status.
type SubmissionDTO struct {
	ID                  int64      `json:"id,omitempty"`
	ContestID           int        `json:"contestId,omitempty"`
	CreationTimeSeconds int64      `json:"creationTimeSeconds,omitempty"`
	RelativeTimeSeconds int64      `json:"relativeTimeSeconds,omitempty"`
	Problem             ProblemDTO `json:"problem"`
	Author              PartyDTO   `json:"author"`
	ProgrammingLanguage string     `json:"programmingLanguage,omitempty"`
	Verdict             string     `json:"verdict,omitempty"`
	Testset             string     `json:"testset,omitempty"`
	PassedTestCount     int        `json:"passedTestCount,omitempty"`
	TimeConsumedMillis  int        `json:"timeConsumedMillis,omitempty"`
	MemoryConsumedBytes int64      `json:"memoryConsumedBytes,omitempty"`
}

// RatingChangeDTO mirrors one entry of user.rating.
type RatingChangeDTO struct {
	ContestID               int    `json:"contestId,omitempty"`
	ContestName             string `json:"contestName,omitempty"`
	Handle                  string `json:"handle,omitempty"`
	Rank                    int    `json:"rank,omitempty"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds,omitempty"`
	OldRating               int    `json:"oldRating,omitempty"`
	NewRating               int    `json:"newRating,omitempty"`
}

// ContestDTO mirrors one entry of contest.list.
type ContestDTO struct {
	ID                  int    `json:"id,omitempty"`
	Name                string `json:"name,omitempty"`
	Type                string `json:"type,omitempty"`
	Phase               string `json:"phase,omitempty"`
	Frozen              bool   `json:"frozen,omitempty"`
	DurationSeconds     int64  `json:"durationSeconds,omitempty"`
	StartTimeSeconds    int64  `json:"startTimeSeconds,omitempty"`
	RelativeTimeSeconds int64  `json:"relativeTimeSeconds,omitempty"`
}

// ProblemStatisticsDTO mirrors the per-problem solve counts returned
// alongside the problemset listing.
type ProblemStatisticsDTO struct {
	ContestID   int    `json:"contestId,omitempty"`
	Index       string `json:"index,omitempty"`
	SolvedCount int    `json:"solvedCount,omitempty"`
}

// ProblemsetDTO mirrors the result of problemset.problems.
type ProblemsetDTO struct {
	Problems          []ProblemDTO           `json:"problems,omitempty"`
	ProblemStatistics []ProblemStatisticsDTO `json:"problemStatistics,omitempty"`
}
