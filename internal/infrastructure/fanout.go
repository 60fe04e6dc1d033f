package infrastructure

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shopping-list/internal/usecase"
)

// Fanout рассылает событие всем подключённым получателям.
// Ошибка одного получателя не мешает доставке остальным.
type Fanout struct {
	notifiers []usecase.ChangeNotifier
}

func NewFanout(notifiers ...usecase.ChangeNotifier) *Fanout {
	active := make([]usecase.ChangeNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}

	return &Fanout{notifiers: active}
}

func (f *Fanout) Notify(ctx context.Context, event *usecase.ListChangedEvent) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Len возвращает число получателей.
func (f *Fanout) Len() int {
	return len(f.notifiers)
}
