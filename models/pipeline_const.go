package models

import "sort"

type ApplicantStatus string

const (
	ApplicantStatusApplied               ApplicantStatus = "applied"
	ApplicantStatusDecisionPending       ApplicantStatus = "decision_pending"
	ApplicantStatusDecisionPendingReview ApplicantStatus = "decision_pending_review"
	ApplicantStatusSelectedForInterview  ApplicantStatus = "selected_for_interview"
	ApplicantStatusInvitationSent        ApplicantStatus = "invitation_sent"
	ApplicantStatusProcessing            ApplicantStatus = "processing"
	ApplicantStatusSelected              ApplicantStatus = "selected"
	ApplicantStatusOfferSent             ApplicantStatus = "offer_sent"
	ApplicantStatusOfferAccepted         ApplicantStatus = "offer_accepted"
	ApplicantStatusRejected              ApplicantStatus = "rejected"
)

// StatusOptionAskForReview пункт меню статуса, который открывает форму запроса на ревью вместо смены статуса
const StatusOptionAskForReview = "ask_for_review"

// порядок этапов воронки, rejected вне порядка
var statusStage = map[ApplicantStatus]int{
	ApplicantStatusApplied:               0,
	ApplicantStatusDecisionPending:       0,
	ApplicantStatusDecisionPendingReview: 1,
	ApplicantStatusSelectedForInterview:  2,
	ApplicantStatusInvitationSent:        3,
	ApplicantStatusProcessing:            4,
	ApplicantStatusSelected:              5,
	ApplicantStatusOfferSent:             6,
	ApplicantStatusOfferAccepted:         7,
	ApplicantStatusRejected:              -1,
}

var statusHumanName = map[ApplicantStatus]string{
	ApplicantStatusApplied:               "Applied",
	ApplicantStatusDecisionPending:       "Decision pending",
	ApplicantStatusDecisionPendingReview: "Pending review",
	ApplicantStatusSelectedForInterview:  "Selected for interview",
	ApplicantStatusInvitationSent:        "Invitation sent",
	ApplicantStatusProcessing:            "Rounds in progress",
	ApplicantStatusSelected:              "Selected",
	ApplicantStatusOfferSent:             "Offer sent",
	ApplicantStatusOfferAccepted:         "Offer accepted",
	ApplicantStatusRejected:              "Rejected",
}

func (s ApplicantStatus) IsKnown() bool {
	_, ok := statusStage[s]
	return ok
}

// Stage позиция в воронке, для неизвестного и пустого статуса 0
func (s ApplicantStatus) Stage() int {
	return statusStage[s]
}

func (s ApplicantStatus) IsTerminal() bool {
	return s == ApplicantStatusRejected
}

func (s ApplicantStatus) ToHuman() string {
	if human, exist := statusHumanName[s]; exist {
		return human
	}
	return statusHumanName[ApplicantStatusDecisionPending]
}

// Bucket группа воронки по точному совпадению статуса. Пустой или неизвестный статус -> pending
func (s ApplicantStatus) Bucket() PipelineBucket {
	switch s {
	case ApplicantStatusDecisionPendingReview:
		return BucketPendingReview
	case ApplicantStatusSelectedForInterview, ApplicantStatusInvitationSent:
		return BucketConductRounds
	case ApplicantStatusProcessing:
		return BucketOngoingRounds
	case ApplicantStatusSelected:
		return BucketSelected
	case ApplicantStatusOfferSent:
		return BucketOfferSent
	case ApplicantStatusOfferAccepted:
		return BucketOfferAccepted
	case ApplicantStatusRejected:
		return BucketRejected
	default:
		return BucketPending
	}
}

// SettableStatuses статусы, которые рекрутер может выставить вручную: этапы в порядке воронки, затем rejected
var SettableStatuses = settableStatuses()

func settableStatuses() []ApplicantStatus {
	list := make([]ApplicantStatus, 0, len(statusStage))
	for status, stage := range statusStage {
		// applied выставляет только внешняя система
		if stage > 0 || status == ApplicantStatusDecisionPending {
			list = append(list, status)
		}
	}
	sort.Slice(list, func(a, b int) bool {
		return list[a].Stage() < list[b].Stage()
	})
	return append(list, ApplicantStatusRejected)
}

type PipelineBucket string

const (
	BucketPending       PipelineBucket = "pending"
	BucketPendingReview PipelineBucket = "pending_review"
	BucketConductRounds PipelineBucket = "conduct_rounds"
	BucketOngoingRounds PipelineBucket = "ongoing_rounds"
	BucketSelected      PipelineBucket = "selected"
	BucketOfferSent     PipelineBucket = "offer_sent"
	BucketOfferAccepted PipelineBucket = "offer_accepted"
	BucketRejected      PipelineBucket = "rejected"
)

// PipelineBuckets порядок вкладок воронки
var PipelineBuckets = []PipelineBucket{
	BucketPending,
	BucketPendingReview,
	BucketConductRounds,
	BucketOngoingRounds,
	BucketSelected,
	BucketOfferSent,
	BucketOfferAccepted,
	BucketRejected,
}

var bucketHumanName = map[PipelineBucket]string{
	BucketPending:       "Decision pending",
	BucketPendingReview: "Pending review",
	BucketConductRounds: "Conduct rounds",
	BucketOngoingRounds: "Ongoing rounds",
	BucketSelected:      "Selected",
	BucketOfferSent:     "Offer sent",
	BucketOfferAccepted: "Offer accepted",
	BucketRejected:      "Rejected",
}

func (b PipelineBucket) ToHuman() string {
	if human, exist := bucketHumanName[b]; exist {
		return human
	}
	return string(b)
}

type InterviewRound string

const (
	RoundInitialScreening InterviewRound = "Initial Screening Round"
	RoundTechnical1       InterviewRound = "Technical Round 1"
	RoundTechnical2       InterviewRound = "Technical Round 2"
	RoundManagerial       InterviewRound = "Managerial Round"
	RoundFinalTechnical   InterviewRound = "Final Technical Round"
	RoundDiscussion       InterviewRound = "Discussion Round"
	RoundNegotiationOffer InterviewRound = "Negotiation/Offer Round"
)

// InterviewRounds фиксированный список этапов, с сервера не приходит
var InterviewRounds = []InterviewRound{
	RoundInitialScreening,
	RoundTechnical1,
	RoundTechnical2,
	RoundManagerial,
	RoundFinalTechnical,
	RoundDiscussion,
	RoundNegotiationOffer,
}

func (r InterviewRound) IsValid() bool {
	for _, item := range InterviewRounds {
		if item == r {
			return true
		}
	}
	return false
}

// AllowsAIInterview AI интервью доступно только на первичном скрининге
func (r InterviewRound) AllowsAIInterview() bool {
	return r == RoundInitialScreening
}

type LocationType string

const (
	LocationTypeOnline   LocationType = "online"
	LocationTypeOffline  LocationType = "offline"
	LocationTypeAIOnline LocationType = "ai_online"
)

// IsSelectable значения, доступные в форме приглашения
func (l LocationType) IsSelectable() bool {
	return l == LocationTypeOnline || l == LocationTypeOffline
}

type JobStatus string

const (
	JobStatusOpen    JobStatus = "open"
	JobStatusOngoing JobStatus = "ongoing"
)

const (
	RoundTypeAIInterview    = "ai_interview"
	RoundStatusScheduled    = "scheduled"
	TranscriptRoleAssistant = "assistant"
	TranscriptRoleCandidate = "candidate"
)
