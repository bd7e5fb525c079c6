package httpapi

import (
	"testing"
	"time"

	"github.com/dimba-league/dimba-api/internal/domain/match"
)

func TestMatchToDTO_SubmittableAt(t *testing.T) {
	kickoff := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)

	dto := matchToDTO(match.Match{ID: 1, MatchDate: &kickoff})
	if dto.SubmittableAt == nil {
		t.Fatalf("expected submittable_at for a dated fixture")
	}
	if want := kickoff.Add(90 * time.Minute); !dto.SubmittableAt.Equal(want) {
		t.Fatalf("submittable_at = %s, want %s", dto.SubmittableAt, want)
	}
}

func TestMatchToDTO_SubmittableAtOmittedWithoutDate(t *testing.T) {
	dto := matchToDTO(match.Match{ID: 2})
	if dto.SubmittableAt != nil {
		t.Fatalf("expected no submittable_at for an undated fixture, got %s", dto.SubmittableAt)
	}
}
