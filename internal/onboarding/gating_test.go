package onboarding

import (
	"errors"
	"testing"

	"github.com/crewhub-app/sync-agent/internal/model"
)

func TestValidateCompletion(t *testing.T) {
	tests := []struct {
		name      string
		page      model.OnboardingPage
		signature string
		wantErr   error
	}{
		{
			name:      "valid completion",
			page:      model.OnboardingPage{ID: "p1", Status: model.PageNotStarted},
			signature: "Sam Smith",
		},
		{
			name:      "empty signature",
			page:      model.OnboardingPage{ID: "p1", Status: model.PageNotStarted},
			signature: "",
			wantErr:   ErrMissingSignature,
		},
		{
			name:      "whitespace signature",
			page:      model.OnboardingPage{ID: "p1", Status: model.PageNotStarted},
			signature: "   ",
			wantErr:   ErrMissingSignature,
		},
		{
			name:      "already completed",
			page:      model.OnboardingPage{ID: "p1", Status: model.PageCompleted},
			signature: "Sam Smith",
			wantErr:   ErrAlreadyCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCompletion(tt.page, tt.signature)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCompletion() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	fullInfo := model.PersonalInfo{MailingAddress: "1 Main St", RequestedHours: "30"}
	required := func(status model.PageStatus) model.OnboardingPage {
		return model.OnboardingPage{Required: true, Status: status}
	}

	tests := []struct {
		name  string
		pages []model.OnboardingPage
		info  model.PersonalInfo
		want  model.OnboardingStatus
	}{
		{
			name:  "all required pages done and info filled",
			pages: []model.OnboardingPage{required(model.PageCompleted), required(model.PageCompleted)},
			info:  fullInfo,
			want:  model.OnboardingComplete,
		},
		{
			name:  "one required page open",
			pages: []model.OnboardingPage{required(model.PageCompleted), required(model.PageNotStarted)},
			info:  fullInfo,
			want:  model.OnboardingIncomplete,
		},
		{
			name: "optional page open does not gate",
			pages: []model.OnboardingPage{
				required(model.PageCompleted),
				{Required: false, Status: model.PageNotStarted},
			},
			info: fullInfo,
			want: model.OnboardingComplete,
		},
		{
			name:  "missing mailing address",
			pages: []model.OnboardingPage{required(model.PageCompleted)},
			info:  model.PersonalInfo{RequestedHours: "30"},
			want:  model.OnboardingIncomplete,
		},
		{
			name:  "missing requested hours",
			pages: []model.OnboardingPage{required(model.PageCompleted)},
			info:  model.PersonalInfo{MailingAddress: "1 Main St"},
			want:  model.OnboardingIncomplete,
		},
		{
			name:  "no pages at all still needs info",
			pages: nil,
			info:  model.PersonalInfo{},
			want:  model.OnboardingIncomplete,
		},
		{
			name:  "no pages with full info",
			pages: nil,
			info:  fullInfo,
			want:  model.OnboardingComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.pages, tt.info); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReminderNagsEverySession(t *testing.T) {
	r := &Reminder{}

	if !r.ShouldShow(model.OnboardingIncomplete) {
		t.Error("reminder not shown for incomplete onboarding")
	}
	if r.ShouldShow(model.OnboardingComplete) {
		t.Error("reminder shown for complete onboarding")
	}

	r.Dismiss()
	if r.ShouldShow(model.OnboardingIncomplete) {
		t.Error("reminder shown after dismissal")
	}

	// A new session clears the dismissal.
	r.Reset()
	if !r.ShouldShow(model.OnboardingIncomplete) {
		t.Error("reminder not shown after session reset")
	}
}
