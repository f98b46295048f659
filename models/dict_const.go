package models

import (
	"strings"

	"github.com/pkg/errors"
)

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeInternship JobType = "Internship"
	JobTypeContract   JobType = "Contract"
)

func (t JobType) Validate() error {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeInternship, JobTypeContract:
		return nil
	}
	return errors.Errorf("unknown job type %q", string(t))
}

func (t JobType) IsInternship() bool {
	return strings.EqualFold(string(t), string(JobTypeInternship))
}

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterview   ApplicationStatus = "interview"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

var applicationStatusHumanName = map[ApplicationStatus]string{
	ApplicationStatusPending:     "Pending review",
	ApplicationStatusReviewed:    "Reviewed",
	ApplicationStatusShortlisted: "Shortlisted",
	ApplicationStatusInterview:   "Interview scheduled",
	ApplicationStatusRejected:    "Rejected",
	ApplicationStatusHired:       "Hired",
}

func (s ApplicationStatus) ToHuman() string {
	if human, exist := applicationStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApplicationStatus) Validate() error {
	if _, exist := applicationStatusHumanName[s]; !exist {
		return errors.Errorf("unknown application status %q", string(s))
	}
	return nil
}

// ApplicationStatuses в порядке прохождения воронки
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPending,
		ApplicationStatusReviewed,
		ApplicationStatusShortlisted,
		ApplicationStatusInterview,
		ApplicationStatusRejected,
		ApplicationStatusHired,
	}
}

type TravelAnswer string

const (
	TravelAnswerYes TravelAnswer = "yes"
	TravelAnswerNo  TravelAnswer = "no"
)

func (a TravelAnswer) Validate() error {
	if a != TravelAnswerYes && a != TravelAnswerNo {
		return errors.New("please tell us whether you can travel to Navi Mumbai (yes or no)")
	}
	return nil
}

type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeTextarea QuestionType = "textarea"
	QuestionTypeRadio    QuestionType = "radio"
	QuestionTypeCheckbox QuestionType = "checkbox"
	QuestionTypeRating   QuestionType = "rating"
)

func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeRadio || t == QuestionTypeCheckbox
}
