package models

// SubmissionOutcome is the terminal result of a single Submit call.
// Exactly one outcome is produced per call; the engine never retries on
// its own — replaying queued scores is the drain worker's job.
type SubmissionOutcome int

const (
	// OutcomeSuccess - the score was accepted by the remote leaderboard.
	OutcomeSuccess SubmissionOutcome = iota
	// OutcomeQueued - connectivity was down; the score is safely in the
	// offline backlog and will be replayed when connectivity returns.
	OutcomeQueued
	// OutcomeNotBestScore - a better score already exists remotely.
	// Informational, not an error; nothing was queued or retried.
	OutcomeNotBestScore
	// OutcomeInvalidScore - the score failed local validation. No
	// network call was made and nothing was queued.
	OutcomeInvalidScore
	// OutcomeNotAuthenticated - the mode requires an authenticated,
	// non-guest identity and none was supplied.
	OutcomeNotAuthenticated
	// OutcomeNetworkError - the remote write failed in transit. The
	// score has already been queued as a safety net: callers must not
	// ask the user to retry manually.
	OutcomeNetworkError
	// OutcomeFailed - the remote service received the call but rejected
	// the payload. Surfaced to the user, not auto-retried, not queued.
	OutcomeFailed
)

func (o SubmissionOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeQueued:
		return "queued"
	case OutcomeNotBestScore:
		return "notBestScore"
	case OutcomeInvalidScore:
		return "invalidScore"
	case OutcomeNotAuthenticated:
		return "notAuthenticated"
	case OutcomeNetworkError:
		return "networkError"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminalError reports whether the outcome should be presented to the
// user with a retry affordance. OutcomeNotBestScore and OutcomeQueued are
// expected, non-alarming states and return false.
func (o SubmissionOutcome) IsTerminalError() bool {
	return o == OutcomeNetworkError || o == OutcomeFailed
}
