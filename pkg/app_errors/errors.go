package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrEventNotAvailable  = errors.New("event is not available")
	ErrEventNotBookable   = errors.New("event is not available for reservation")
	ErrAccessDenied       = errors.New("access denied")
	ErrNotOwner           = errors.New("not your reservation")
	ErrTicketNotAvailable = errors.New("ticket available only for confirmed reservations")

	ErrActiveReservationExists = errors.New("you already have an active reservation for this event")
	ErrEventFullyBooked        = errors.New("event is fully booked")
	ErrEventCapacityReached    = errors.New("event capacity reached")
	ErrEmailAlreadyRegistered  = errors.New("email already registered")

	ErrOnlyPendingConfirm    = errors.New("only pending reservations can be confirmed")
	ErrOnlyPendingRefuse     = errors.New("only pending reservations can be refused")
	ErrReservationClosed     = errors.New("reservation already canceled or refused")
	ErrCannotPublishCanceled = errors.New("cannot publish a canceled event")
	ErrEventCanceled         = errors.New("event is canceled")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrInvalidInput        = errors.New("invalid input")
	ErrInternalServerError = errors.New("internal server error")
	ErrRateLimited         = errors.New("too many requests")
)

// Kind 錯誤分類，handler 依此決定 HTTP 狀態碼
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidTransition
	KindUnauthorized
	KindInvalidInput
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidInput:
		return "invalid_input"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

type classified struct {
	err  error
	kind Kind
}

var classification = []classified{
	{ErrEventNotFound, KindNotFound},
	{ErrReservationNotFound, KindNotFound},
	{ErrUserNotFound, KindNotFound},

	{ErrEventNotAvailable, KindForbidden},
	{ErrEventNotBookable, KindForbidden},
	{ErrAccessDenied, KindForbidden},
	{ErrNotOwner, KindForbidden},
	{ErrTicketNotAvailable, KindForbidden},

	{ErrActiveReservationExists, KindConflict},
	{ErrEventFullyBooked, KindConflict},
	{ErrEventCapacityReached, KindConflict},
	{ErrEmailAlreadyRegistered, KindConflict},

	{ErrOnlyPendingConfirm, KindInvalidTransition},
	{ErrOnlyPendingRefuse, KindInvalidTransition},
	{ErrReservationClosed, KindInvalidTransition},
	{ErrCannotPublishCanceled, KindInvalidTransition},
	{ErrEventCanceled, KindInvalidTransition},

	{ErrUnauthorized, KindUnauthorized},
	{ErrInvalidCredentials, KindUnauthorized},
	{ErrInvalidToken, KindUnauthorized},

	{ErrInvalidInput, KindInvalidInput},
	{ErrRateLimited, KindRateLimited},
}

// KindOf returns the kind of the first known sentinel matched by errors.Is.
func KindOf(err error) Kind {
	if s := Sentinel(err); s != nil {
		for _, c := range classification {
			if c.err == s {
				return c.kind
			}
		}
	}
	return KindInternal
}

// Sentinel returns the known sentinel err wraps, or nil.
func Sentinel(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range classification {
		if errors.Is(err, c.err) {
			return c.err
		}
	}
	return nil
}
