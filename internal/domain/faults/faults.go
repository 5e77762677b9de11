// internal/domain/faults/faults.go

// Package faults declares the logical error values the core services
// return. Each value carries a taxonomy code so transport layers can
// map it to a status without inspecting message text. Callers match
// with errors.Is; services return the first violated invariant and
// never wrap multiple causes into one failure.
package faults

// Codes group logical errors by kind. All are recoverable by the
// caller; none is process-fatal.
const (
	CodeNotFound   = "not_found"
	CodeValidation = "validation"
	CodeConflict   = "conflict"
	CodeAuth       = "auth"
	CodeExternal   = "external"
)

// Fault is a typed logical error. The zero value is not valid; use the
// package-level sentinels.
type Fault struct {
	Code    string
	Message string
}

func (f *Fault) Error() string { return f.Message }

// Is makes every fault with the same identity match under errors.Is.
// Sentinels are compared by pointer, so wrapping with fmt.Errorf("%w")
// still matches.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	return ok && t == f
}

var (
	// Membership service.
	ErrAlreadyMember   = &Fault{Code: CodeConflict, Message: "already a member of this group"}
	ErrNotAMember      = &Fault{Code: CodeNotFound, Message: "not a member of this group"}
	ErrMembershipLimit = &Fault{Code: CodeValidation, Message: "active group limit reached"}
	ErrNotOwner        = &Fault{Code: CodeAuth, Message: "only the owner can transfer ownership"}
	ErrTargetNotMember = &Fault{Code: CodeNotFound, Message: "target user is not a member"}

	// Directory / lookups.
	ErrGroupNotFound = &Fault{Code: CodeNotFound, Message: "group not found"}
	ErrUserNotFound  = &Fault{Code: CodeNotFound, Message: "user not found"}

	// Message validation.
	ErrEmptyMessage   = &Fault{Code: CodeValidation, Message: "message cannot be empty"}
	ErrMessageTooLong = &Fault{Code: CodeValidation, Message: "message exceeds the maximum length"}

	// Creation conflicts.
	ErrDuplicateGroupName = &Fault{Code: CodeConflict, Message: "a group with this name already exists"}
	ErrDuplicatePhone     = &Fault{Code: CodeConflict, Message: "phone number already registered"}

	// Credentials.
	ErrInvalidCredentials = &Fault{Code: CodeAuth, Message: "invalid credentials"}

	// Outbound gateway.
	ErrGatewaySend = &Fault{Code: CodeExternal, Message: "failed to send SMS"}
)

// CodeOf returns the taxonomy code for err, or "" when err is not a
// Fault.
func CodeOf(err error) string {
	for e := err; e != nil; {
		if f, ok := e.(*Fault); ok {
			return f.Code
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		e = u.Unwrap()
	}
	return ""
}
