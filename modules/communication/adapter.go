package communication

import (
	"context"

	"github.com/klinehq/communication/pkg/attachment"
	"github.com/klinehq/communication/pkg/notification"
)

// StoreAdapter exposes an attachment.Store as the fetch and cleanup
// interfaces the notification workflow consumes.
type StoreAdapter struct {
	store attachment.Store
}

// NewStoreAdapter wraps an attachment store.
func NewStoreAdapter(store attachment.Store) *StoreAdapter {
	if store == nil {
		panic("communication: attachment store cannot be nil")
	}
	return &StoreAdapter{store: store}
}

func (a *StoreAdapter) Fetch(ctx context.Context, ref string) (notification.Attachment, error) {
	f, err := a.store.Fetch(ctx, ref)
	if err != nil {
		return notification.Attachment{}, err
	}
	return notification.Attachment{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Data:        f.Data,
	}, nil
}

func (a *StoreAdapter) Delete(ctx context.Context, ref string) error {
	return a.store.Delete(ctx, ref)
}
