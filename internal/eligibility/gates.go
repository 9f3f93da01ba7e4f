package eligibility

import (
	"time"

	"communityticketing/internal/domain"
)

func block(c *Context, reason domain.Reason, step *domain.NextStep) *domain.Decision {
	d := domain.Block(c.Event.ID, reason, step)
	return &d
}

// privilegedAccessGate admits organization owners and staff immediately.
// Running it first keeps staff from being blocked by the stricter gates
// below, the blacklist gate in particular.
type privilegedAccessGate struct{}

func (privilegedAccessGate) Name() string { return "privileged_access" }

func (privilegedAccessGate) Check(c *Context) *domain.Decision {
	if c.IsPrivileged() {
		d := domain.Allow(c.Event.ID)
		return &d
	}
	return nil
}

// blacklistGate blocks hard-blacklisted users unconditionally and routes
// fuzzy-matched users through the whitelist clearance flow. Active members
// are trusted and skip the fuzzy path.
type blacklistGate struct{}

func (blacklistGate) Name() string { return "blacklist" }

func (blacklistGate) Check(c *Context) *domain.Decision {
	if c.HardBlacklisted {
		return block(c, domain.ReasonBlacklisted, nil)
	}
	if c.IsActiveMember() {
		return nil
	}
	if len(c.FuzzyMatches) == 0 {
		return nil
	}
	if c.Whitelisted {
		return nil
	}
	if req := c.WhitelistRequest; req != nil {
		switch req.Status {
		case domain.RequestPending:
			return block(c, domain.ReasonVerificationRequired, domain.StepPtr(domain.StepWaitForWhitelist))
		case domain.RequestRejected:
			return block(c, domain.ReasonVerificationRequired, nil)
		}
	}
	return block(c, domain.ReasonVerificationRequired, domain.StepPtr(domain.StepRequestWhitelist))
}

// eventStatusGate blocks events that have ended or are not open yet.
type eventStatusGate struct{}

func (eventStatusGate) Name() string { return "event_status" }

func (eventStatusGate) Check(c *Context) *domain.Decision {
	if c.Event.Ended(c.Now) {
		return block(c, domain.ReasonEventEnded, nil)
	}
	if c.Event.Status != domain.EventStatusOpen {
		return block(c, domain.ReasonEventNotOpen, domain.StepPtr(domain.StepWaitForEventToOpen))
	}
	return nil
}

// rsvpDeadlineGate enforces rsvp_before on non-ticketed events, unless the
// invitation waives it.
type rsvpDeadlineGate struct{}

func (rsvpDeadlineGate) Name() string { return "rsvp_deadline" }

func (rsvpDeadlineGate) Check(c *Context) *domain.Decision {
	if c.Event.RequiresTicket {
		return nil
	}
	if c.Event.RSVPBefore == nil || c.Invitation.RSVPDeadlineWaived() {
		return nil
	}
	if c.Now.After(*c.Event.RSVPBefore) {
		return block(c, domain.ReasonRSVPDeadlinePassed, nil)
	}
	return nil
}

// applyDeadlineGate blocks users who still need to apply (request an
// invitation or complete a questionnaire) once the effective application
// deadline has passed. Users with nothing left to apply for pass through.
type applyDeadlineGate struct{}

func (applyDeadlineGate) Name() string { return "apply_deadline" }

func (applyDeadlineGate) Check(c *Context) *domain.Decision {
	if !needsInvitationApplication(c) && !needsQuestionnaireApplication(c) {
		return nil
	}
	if c.Invitation.ApplyDeadlineWaived() {
		return nil
	}
	if c.Now.After(c.Event.EffectiveApplyDeadline()) {
		return block(c, domain.ReasonApplicationDeadlinePassed, nil)
	}
	return nil
}

// needsInvitationApplication reports whether the user would still have to
// request an invitation: private event, no invitation granted, and the
// organization accepts invitation requests.
func needsInvitationApplication(c *Context) bool {
	if c.Event.EventType != domain.EventTypePrivate || c.Invitation != nil {
		return false
	}
	if !c.Org.AcceptInvitationRequests {
		return false
	}
	return c.InvitationRequest == nil || c.InvitationRequest.Status != domain.RequestApproved
}

// needsQuestionnaireApplication reports whether the user still has an unmet
// or rejected admission questionnaire that an invitation does not waive.
func needsQuestionnaireApplication(c *Context) bool {
	if c.Invitation.QuestionnaireWaived() {
		return false
	}
	for _, q := range applicableQuestionnaires(c) {
		switch assessQuestionnaire(c, q).state {
		case qMissing, qFailedCooldown, qFailedPermanent:
			return true
		}
	}
	return false
}

// invitationGate requires an invitation for private events and points users
// at the request flow when one is open.
type invitationGate struct{}

func (invitationGate) Name() string { return "invitation" }

func (invitationGate) Check(c *Context) *domain.Decision {
	if c.Event.EventType != domain.EventTypePrivate {
		return nil
	}
	if c.Invitation != nil {
		return nil
	}
	if req := c.InvitationRequest; req != nil {
		switch req.Status {
		case domain.RequestPending:
			return block(c, domain.ReasonRequiresInvitation, domain.StepPtr(domain.StepWaitForInvitation))
		case domain.RequestRejected:
			return block(c, domain.ReasonRequiresInvitation, nil)
		case domain.RequestApproved:
			// Approved requests are fulfilled by creating an invitation;
			// until that lands, treat the approval itself as access.
			return nil
		}
	}
	if c.Org.AcceptInvitationRequests {
		return block(c, domain.ReasonRequiresInvitation, domain.StepPtr(domain.StepRequestInvitation))
	}
	return block(c, domain.ReasonRequiresInvitation, nil)
}

// membershipGate requires an active membership for members-only events,
// unless the invitation waives it.
type membershipGate struct{}

func (membershipGate) Name() string { return "membership" }

func (membershipGate) Check(c *Context) *domain.Decision {
	if c.Event.EventType != domain.EventTypeMembersOnly {
		return nil
	}
	if c.Invitation.MembershipWaived() {
		return nil
	}
	m, ok := c.Membership()
	if ok {
		if m.Status == domain.MembershipActive {
			return nil
		}
		// Paused, cancelled, or banned: the user must sort this out with
		// the organization directly.
		return block(c, domain.ReasonMembershipInactive, nil)
	}
	if c.Org.AcceptMembershipRequests {
		return block(c, domain.ReasonMembersOnly, domain.StepPtr(domain.StepBecomeMember))
	}
	return block(c, domain.ReasonMembersOnly, nil)
}

// questionnaireGate requires every applicable admission questionnaire to be
// submitted and approved. Sub-checks run in order: missing, pending review,
// failed.
type questionnaireGate struct{}

func (questionnaireGate) Name() string { return "questionnaire" }

func (questionnaireGate) Check(c *Context) *domain.Decision {
	if c.Invitation.QuestionnaireWaived() {
		return nil
	}

	var missing, pending, failed []string
	var retryOn *time.Time
	permanent := false

	for _, q := range applicableQuestionnaires(c) {
		a := assessQuestionnaire(c, q)
		switch a.state {
		case qMissing:
			missing = append(missing, q.QuestionnaireID)
		case qPending:
			pending = append(pending, q.QuestionnaireID)
		case qFailedPermanent:
			failed = append(failed, q.QuestionnaireID)
			permanent = true
		case qFailedCooldown:
			failed = append(failed, q.QuestionnaireID)
			// The user must be able to retake all failed questionnaires.
			if retryOn == nil || a.retryOn.After(*retryOn) {
				t := a.retryOn
				retryOn = &t
			}
		}
	}

	if len(missing) > 0 {
		d := domain.Block(c.Event.ID, domain.ReasonQuestionnaireMissing, domain.StepPtr(domain.StepCompleteQuestionnaire))
		d.QuestionnairesMissing = missing
		return &d
	}
	if len(pending) > 0 {
		d := domain.Block(c.Event.ID, domain.ReasonQuestionnairePending, domain.StepPtr(domain.StepWaitForEvaluation))
		d.QuestionnairesPendingReview = pending
		return &d
	}
	if len(failed) > 0 {
		var step *domain.NextStep
		if !permanent {
			step = domain.StepPtr(domain.StepWaitToRetakeQuestionnaire)
		}
		d := domain.Block(c.Event.ID, domain.ReasonQuestionnaireFailed, step)
		d.QuestionnairesFailed = failed
		if !permanent {
			d.RetryOn = retryOn
		}
		return &d
	}
	return nil
}

// applicableQuestionnaires filters the event's questionnaires down to the
// admission ones this user must pass.
func applicableQuestionnaires(c *Context) []*domain.OrgQuestionnaire {
	var out []*domain.OrgQuestionnaire
	for _, q := range c.Questionnaires {
		if q.Type != domain.QuestionnaireAdmission {
			continue
		}
		if q.MembersExempt && c.IsActiveMember() {
			continue
		}
		out = append(out, q)
	}
	return out
}

type questionnaireState int

const (
	qPassed questionnaireState = iota
	qMissing
	qPending
	qFailedCooldown
	qFailedPermanent
)

type questionnaireAssessment struct {
	state   questionnaireState
	retryOn time.Time
}

// assessQuestionnaire classifies one questionnaire requirement from the
// user's READY submissions (newest first).
func assessQuestionnaire(c *Context, q *domain.OrgQuestionnaire) questionnaireAssessment {
	subs := c.Submissions[q.QuestionnaireID]
	if len(subs) == 0 {
		return questionnaireAssessment{state: qMissing}
	}

	latest := subs[0]
	eval := latest.Evaluation
	if eval == nil || eval.Status == domain.EvaluationPending {
		return questionnaireAssessment{state: qPending}
	}

	if eval.Status == domain.EvaluationApproved {
		if q.MaxSubmissionAge != nil && c.Now.After(latest.SubmittedAt.Add(*q.MaxSubmissionAge)) {
			// Approval expired; the user has to submit again.
			return questionnaireAssessment{state: qMissing}
		}
		return questionnaireAssessment{state: qPassed}
	}

	// Rejected.
	if q.MaxAttempts > 0 && len(subs) >= q.MaxAttempts {
		return questionnaireAssessment{state: qFailedPermanent}
	}
	if q.CanRetakeAfter == nil {
		// Immediate retry allowed: same as having no submission.
		return questionnaireAssessment{state: qMissing}
	}
	retryOn := latest.SubmittedAt.Add(*q.CanRetakeAfter)
	if !c.Now.Before(retryOn) {
		return questionnaireAssessment{state: qMissing}
	}
	return questionnaireAssessment{state: qFailedCooldown, retryOn: retryOn}
}

// availabilityGate is the advisory capacity check against the snapshot
// counts; the authoritative, lock-protected check happens again at commit
// time in the event manager.
type availabilityGate struct{}

func (availabilityGate) Name() string { return "availability" }

func (availabilityGate) Check(c *Context) *domain.Decision {
	if c.Event.MaxAttendees == 0 || c.Invitation.MaxAttendeesOverridden() {
		return nil
	}
	if c.AttendeeCount() < c.Event.MaxAttendees {
		return nil
	}
	if c.UserIsWaitlisted {
		return block(c, domain.ReasonEventIsFull, domain.StepPtr(domain.StepWaitForOpenSpot))
	}
	if c.Event.WaitlistOpen {
		return block(c, domain.ReasonEventIsFull, domain.StepPtr(domain.StepJoinWaitlist))
	}
	return block(c, domain.ReasonEventIsFull, nil)
}

// ticketSalesGate requires at least one tier with an open sales window on
// ticketed events. A tier's window end falls back to the event start.
type ticketSalesGate struct{}

func (ticketSalesGate) Name() string { return "ticket_sales" }

func (ticketSalesGate) Check(c *Context) *domain.Decision {
	if !c.Event.RequiresTicket {
		return nil
	}
	for _, tier := range c.Tiers {
		if tier.SalesOpen(c.Now, c.Event.Start) {
			return nil
		}
	}
	return block(c, domain.ReasonTicketSalesClosed, nil)
}
