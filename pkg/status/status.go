// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

// 📊 Outcome classifies what a single edit found when it looked at the target
type Outcome int

const (
	OutcomeUnknown          Outcome = iota
	OutcomeNoTargetFound            // Required file does not exist
	OutcomePermissionDenied         // Read or write blocked by access rights
	OutcomeNoMatch                  // Replace operation found nothing to act on
	OutcomeAlreadyCorrect           // Target found, content would be unchanged
	OutcomeChanged                  // A real transformation is available
	OutcomeGenericFailure           // Anything unanticipated
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeNoTargetFound:
		return "not-found"
	case OutcomePermissionDenied:
		return "permission-denied"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeAlreadyCorrect:
		return "already-correct"
	case OutcomeChanged:
		return "changed"
	case OutcomeGenericFailure:
		return "generic-failure"
	default:
		return "unknown"
	}
}

// 🙋 Decision is what the confirmation gate decided about a pending change
type Decision int

const (
	DecisionNotApplicable Decision = iota // old and new content were equal
	DecisionApproved
	DecisionDeclined
)

// String returns a string representation of Decision
func (d Decision) String() string {
	switch d {
	case DecisionApproved:
		return "approved"
	case DecisionDeclined:
		return "declined"
	default:
		return "not-applicable"
	}
}

// 🏷️ OperationKind names one of the four edit operations
type OperationKind string

const (
	KindEnsureLine     OperationKind = "line"
	KindEnsureBlock    OperationKind = "block"
	KindReplaceExact   OperationKind = "replace"
	KindReplacePattern OperationKind = "replace-re"
)

// 🚦 ExitCode is the process exit status. The values are a stable contract.
type ExitCode int

const (
	ExitOK               ExitCode = 0
	ExitGenericFailure   ExitCode = 1
	ExitPermissionDenied ExitCode = 2
	ExitNoMatch          ExitCode = 3
	ExitNoChangeNeeded   ExitCode = 4
	ExitNotFound         ExitCode = 5
)

// String returns a string representation of ExitCode
func (c ExitCode) String() string {
	switch c {
	case ExitOK:
		return "ok"
	case ExitGenericFailure:
		return "generic-failure"
	case ExitPermissionDenied:
		return "permission-denied"
	case ExitNoMatch:
		return "no-match"
	case ExitNoChangeNeeded:
		return "no-change-needed"
	case ExitNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// 🎯 Classify maps an edit outcome and the gate's decision to the one exit code
// the process terminates with. idempotentOK controls whether "nothing to do"
// counts as success.
func Classify(outcome Outcome, decision Decision, idempotentOK bool) ExitCode {
	noop := ExitNoChangeNeeded
	if idempotentOK {
		noop = ExitOK
	}

	switch outcome {
	case OutcomeNoTargetFound:
		return ExitNotFound
	case OutcomePermissionDenied:
		return ExitPermissionDenied
	case OutcomeNoMatch:
		return ExitNoMatch
	case OutcomeAlreadyCorrect:
		return noop
	case OutcomeChanged:
		switch decision {
		case DecisionApproved:
			return ExitOK
		case DecisionDeclined:
			return ExitNoChangeNeeded
		default:
			return noop
		}
	default:
		return ExitGenericFailure
	}
}
