package usecase

import "context"

// ChangeNotifier публикует события изменения списка во внешние системы.
// Notify вызывается под блокировкой списка и не должен ждать сетевого I/O:
// медленных получателей оборачивают в infrastructure.Dispatcher.
type ChangeNotifier interface {
	Notify(ctx context.Context, event *ListChangedEvent) error
}
