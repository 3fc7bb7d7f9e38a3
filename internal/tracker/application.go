// Package tracker stores analyzed job applications and aggregates skill demand across them.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/fit-scorer/internal/suitability"
)

type Status string

const (
	StatusAnalyzed  Status = "Analyzed"
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{StatusAnalyzed, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

type Channel string

const (
	ChannelEmail         Channel = "Email"
	ChannelCompanyPortal Channel = "Company Portal"
	ChannelLinkedIn      Channel = "LinkedIn"
)

// Channels lists every application channel.
var Channels = []Channel{ChannelEmail, ChannelCompanyPortal, ChannelLinkedIn}

// ParseStatus matches s against the known statuses ignoring case and surrounding spaces.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// ParseChannel matches s against the known channels ignoring case and surrounding spaces.
func ParseChannel(s string) (Channel, error) {
	s = strings.TrimSpace(s)
	for _, ch := range Channels {
		if strings.EqualFold(s, string(ch)) {
			return ch, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// Application is one job the user analyzed and possibly applied to.
type Application struct {
	ID             string              `json:"id"`
	JobTitle       string              `json:"jobTitle"`
	Company        string              `json:"company"`
	Location       string              `json:"location,omitempty"`
	Status         Status              `json:"status"`
	Channel        Channel             `json:"channel,omitempty"`
	AppliedAt      *time.Time          `json:"appliedAt,omitempty"`
	ResumeName     string              `json:"resumeName,omitempty"`
	JobDescription string              `json:"jobDescription,omitempty"`
	JDKeywords     []string            `json:"jdKeywords"`
	CVKeywords     []string            `json:"cvKeywords"`
	Result         *suitability.Result `json:"result,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// Score returns the overall score of the stored result, or 0 when the application was not scored.
func (a *Application) Score() float64 {
	if a == nil || a.Result == nil {
		return 0
	}
	return a.Result.OverallScore
}

// Band is a coarse grouping of overall scores.
type Band string

const (
	BandStrong   Band = "strong"
	BandModerate Band = "moderate"
	BandWeak     Band = "weak"
)

// ScoreBand groups an overall score in [0,100].
func ScoreBand(score float64) Band {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandModerate
	default:
		return BandWeak
	}
}

// prepare fills defaults before an application is persisted.
func prepare(app *Application, id func() string, now time.Time) {
	if app.ID == "" {
		app.ID = id()
	}
	if app.Status == "" {
		app.Status = StatusAnalyzed
	}
	if app.JDKeywords == nil {
		app.JDKeywords = []string{}
	}
	if app.CVKeywords == nil {
		app.CVKeywords = []string{}
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now
}

// transition applies a status change, stamping the application date on the first move to Applied.
func transition(app *Application, status Status, now time.Time) {
	app.Status = status
	app.UpdatedAt = now
	if status == StatusApplied && app.AppliedAt == nil {
		t := now
		app.AppliedAt = &t
	}
}
