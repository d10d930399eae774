package store

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	a "storefront-backend/internal/domains/address"
)

// LogNotifier ghi lỗi ra zerolog; lỗi nghiệp vụ ở mức warn, còn lại error
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.With().Str("component", "address_store").Logger()}
}

func (n *LogNotifier) Notify(ctx context.Context, userID, op string, err error) {
	event := n.logger.Error()
	switch a.GetErrorCode(err) {
	case a.CodeAddressNotFound, a.CodeValidationFailed, a.CodeConflict,
		a.CodeNoCurrentUser, a.CodeCannotUnsetDefault:
		event = n.logger.Warn()
	}

	event.Err(err).
		Str("user_id", userID).
		Str("op", op).
		Str("code", a.GetErrorCode(err)).
		Msg(a.GetErrorMessage(err))
}
