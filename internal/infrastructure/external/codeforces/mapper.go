// Package codeforces implements the Codeforces public API client.
package codeforces

import (
	"time"

	"github.com/cf-hub/cf-progress-hub/internal/domain/profile"
	"github.com/cf-hub/cf-progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to domain conversion
// ══════════════════════════════════════════════════════════════════════════════

// Mapper converts API DTOs to domain entities. Every field is treated as
// optional on the way in; missing values get zero-value defaults here so
// the domain never has to guess.
type Mapper struct{}

// NewMapper creates a new Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToUserInfo converts a UserDTO to the domain profile.
func (m *Mapper) ToUserInfo(dto *UserDTO) profile.UserInfo {
	info := profile.UserInfo{
		Handle:    dto.Handle,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Country:   dto.Country,
		City:      dto.City,
		Avatar:    dto.Avatar,
		Rating:    dto.Rating,
		MaxRating: dto.MaxRating,
		Rank:      dto.Rank,
		MaxRank:   dto.MaxRank,
	}

	if info.Rank == "" {
		info.Rank = "unrated"
	}
	if info.MaxRank == "" {
		info.MaxRank = "unrated"
	}
	if dto.RegistrationTimeSeconds > 0 {
		info.RegisteredAt = timeutil.FromEpochSeconds(dto.RegistrationTimeSeconds)
	}
	if dto.LastOnlineTimeSeconds > 0 {
		info.LastOnlineAt = timeutil.FromEpochSeconds(dto.LastOnlineTimeSeconds)
	}

	return info
}

// ToSubmission converts a SubmissionDTO to the domain type.
func (m *Mapper) ToSubmission(dto SubmissionDTO) profile.Submission {
	sub := profile.Submission{
		ID:                  dto.ID,
		ContestID:           dto.Problem.ContestID,
		Index:               dto.Problem.Index,
		Name:                dto.Problem.Name,
		Verdict:             profile.Verdict(dto.Verdict),
		Rating:              dto.Problem.Rating,
		Tags:                dto.Problem.Tags,
		ProgrammingLanguage: dto.ProgrammingLanguage,
	}

	// Problems occasionally omit their own contestId; the submission's
	// contestId fills the gap so the dedup key stays usable.
	if sub.ContestID == 0 {
		sub.ContestID = dto.ContestID
	}
	if dto.CreationTimeSeconds > 0 {
		sub.SubmittedAt = timeutil.FromEpochSeconds(dto.CreationTimeSeconds)
	}

	return sub
}

// ToSubmissions converts a slice of submission DTOs.
func (m *Mapper) ToSubmissions(dtos []SubmissionDTO) []profile.Submission {
	subs := make([]profile.Submission, 0, len(dtos))
	for _, dto := range dtos {
		subs = append(subs, m.ToSubmission(dto))
	}
	return subs
}

// ToContestResult converts a RatingChangeDTO to the domain type.
func (m *Mapper) ToContestResult(dto RatingChangeDTO) profile.ContestResult {
	result := profile.ContestResult{
		ContestID:   dto.ContestID,
		ContestName: dto.ContestName,
		Rank:        dto.Rank,
		OldRating:   dto.OldRating,
		NewRating:   dto.NewRating,
	}
	if dto.RatingUpdateTimeSeconds > 0 {
		result.RatedAt = timeutil.FromEpochSeconds(dto.RatingUpdateTimeSeconds)
	}
	return result
}

// ToContestResults converts a slice of rating change DTOs, preserving the
// API's order.
func (m *Mapper) ToContestResults(dtos []RatingChangeDTO) []profile.ContestResult {
	results := make([]profile.ContestResult, 0, len(dtos))
	for _, dto := range dtos {
		results = append(results, m.ToContestResult(dto))
	}
	return results
}

// ContestInfo is the domain-facing view of an upcoming or past contest.
type ContestInfo struct {
	ID         int
	Name       string
	Phase      string
	StartsAt   time.Time
	Duration   time.Duration
	IsUpcoming bool
}

// ToContestInfo converts a ContestDTO.
func (m *Mapper) ToContestInfo(dto ContestDTO) ContestInfo {
	info := ContestInfo{
		ID:         dto.ID,
		Name:       dto.Name,
		Phase:      dto.Phase,
		Duration:   time.Duration(dto.DurationSeconds) * time.Second,
		IsUpcoming: dto.Phase == "BEFORE",
	}
	if dto.StartTimeSeconds > 0 {
		info.StartsAt = timeutil.FromEpochSeconds(dto.StartTimeSeconds)
	}
	return info
}
