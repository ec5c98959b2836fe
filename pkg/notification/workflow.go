package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/klinehq/communication/pkg/logger"
	"github.com/klinehq/communication/pkg/transaction"
)

// DefaultSendTimeout bounds a single gateway call. The external channel
// gets no unbounded wait; deployments can override it per workflow.
const DefaultSendTimeout = 30 * time.Second

// AttachmentCleaner removes a stored attachment by reference. Used for
// optional post-send cleanup.
type AttachmentCleaner interface {
	Delete(ctx context.Context, ref string) error
}

// Workflow orchestrates one send attempt:
// validate, record pending, compose, send, record terminal status.
//
// Each invocation runs on the caller's goroutine; the only shared
// resource is the durable record store, and each record is owned by the
// invocation that created it. Identical requests are not deduplicated:
// sending twice produces two records and, if transport accepts twice,
// two deliveries.
type Workflow struct {
	recorder    Recorder
	composer    *Composer
	gateways    map[Channel]TransportGateway
	log         *slog.Logger
	sendTimeout time.Duration
	cleaner     AttachmentCleaner
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the workflow logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Workflow) {
		if log != nil {
			w.log = log
		}
	}
}

// WithSendTimeout overrides the per-call gateway timeout.
func WithSendTimeout(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.sendTimeout = d
		}
	}
}

// WithAttachmentCleanup enables best-effort deletion of attachment files
// after a successful send. Cleanup failures are logged, never surfaced.
func WithAttachmentCleanup(cleaner AttachmentCleaner) Option {
	return func(w *Workflow) {
		w.cleaner = cleaner
	}
}

// NewWorkflow creates a workflow over the given recorder, composer and
// per-channel gateways.
func NewWorkflow(recorder Recorder, composer *Composer, gateways map[Channel]TransportGateway, opts ...Option) *Workflow {
	if recorder == nil {
		panic("notification: recorder cannot be nil")
	}
	if composer == nil {
		panic("notification: composer cannot be nil")
	}
	if len(gateways) == 0 {
		panic("notification: at least one transport gateway is required")
	}

	w := &Workflow{
		recorder:    recorder,
		composer:    composer,
		gateways:    gateways,
		log:         slog.Default(),
		sendTimeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Result is the caller-facing outcome of a successful send.
type Result struct {
	Record  *transaction.Record
	Receipt DeliveryReceipt
	Notice  string
	// Reset is the zeroed form payload handed back so the caller can
	// clear its input fields for reuse.
	Reset RawInput
}

// Send runs one complete send attempt for the acting user.
//
// Validation failures are returned verbatim and leave no record. Every
// later failure marks the record Fail with the real cause in its detail
// field and returns the opaque ErrCannotSend, except
// ErrMissingSenderIdentity which is also shown verbatim. Recorder
// failures surface as ErrPersistence. By the time Send returns, the
// record (when one exists) is always in a terminal state.
func (w *Workflow) Send(ctx context.Context, user User, raw RawInput) (*Result, error) {
	req, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	rec, err := w.recorder.Begin(ctx, user.Name, req.Snapshot())
	if err != nil {
		w.log.LogAttrs(ctx, slog.LevelError, "failed to record pending transaction",
			logger.Error(err), logger.UserID(user.ID), logger.Channel(req.Channel()))
		return nil, errors.Join(ErrPersistence, err)
	}

	msg, err := w.composer.Compose(ctx, user, req)
	if err != nil {
		return nil, w.fail(ctx, user, rec, err)
	}

	gateway, ok := w.gateways[req.Channel()]
	if !ok {
		return nil, w.fail(ctx, user, rec, fmt.Errorf("no transport gateway for channel %q", req.Channel()))
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	receipt, err := gateway.Send(sendCtx, msg)
	if err != nil {
		return nil, w.fail(ctx, user, rec, err)
	}

	if err := w.recorder.Complete(ctx, rec, transaction.StatusSuccess, ""); err != nil {
		w.log.LogAttrs(ctx, slog.LevelError, "failed to record send outcome",
			logger.Error(err), logger.TransactionID(rec.ID), logger.UserID(user.ID))
		return nil, errors.Join(ErrPersistence, err)
	}

	w.cleanupAttachments(ctx, req)

	w.log.LogAttrs(ctx, slog.LevelInfo, "message sent",
		logger.TransactionID(rec.ID),
		logger.Channel(req.Channel()),
		logger.Recipient(req.To()),
		logger.UserID(user.ID),
	)

	return &Result{
		Record:  rec,
		Receipt: receipt,
		Notice:  notice(req.Channel()),
		Reset:   RawInput{Channel: raw.Channel},
	}, nil
}

// fail records the terminal failure and maps the cause to the
// caller-facing error. The raw cause ends up only in the record's detail
// field and in logs.
func (w *Workflow) fail(ctx context.Context, user User, rec *transaction.Record, cause error) error {
	if err := w.recorder.Complete(ctx, rec, transaction.StatusFail, cause.Error()); err != nil {
		w.log.LogAttrs(ctx, slog.LevelError, "failed to record send failure",
			logger.Error(err), logger.TransactionID(rec.ID), logger.UserID(user.ID))
		return errors.Join(ErrPersistence, err)
	}

	w.log.LogAttrs(ctx, slog.LevelError, "send attempt failed",
		logger.Error(cause),
		logger.TransactionID(rec.ID),
		logger.Channel(Channel(rec.Channel)),
		logger.UserID(user.ID),
	)

	if errors.Is(cause, ErrMissingSenderIdentity) {
		return cause
	}
	return ErrCannotSend
}

func (w *Workflow) cleanupAttachments(ctx context.Context, req Request) {
	if w.cleaner == nil {
		return
	}
	for _, ref := range req.Attachments() {
		if err := w.cleaner.Delete(ctx, ref); err != nil {
			w.log.LogAttrs(ctx, slog.LevelWarn, "failed to delete attachment after send",
				logger.Error(err), slog.String("attachment_ref", ref))
		}
	}
}

func notice(ch Channel) string {
	if ch == ChannelSMS {
		return "SMS sent successfully"
	}
	return "Email sent successfully"
}
