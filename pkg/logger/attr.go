package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the acting user identifier under the key "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Channel records the notification channel under the key "channel".
func Channel(ch any) slog.Attr {
	if ch == nil {
		return slog.Attr{}
	}
	return slog.Any("channel", ch)
}

// TransactionID records a transaction record identifier under the key
// "transaction_id".
func TransactionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("transaction_id", id)
}

// Recipient records the message recipient under the key "recipient".
func Recipient(to string) slog.Attr {
	if to == "" {
		return slog.Attr{}
	}
	return slog.String("recipient", to)
}
