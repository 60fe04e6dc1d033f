package redis

import (
	"context"
	"encoding/json"

	"github.com/DRSN-tech/shopping-list/internal/cfg"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/clients"
	"github.com/DRSN-tech/shopping-list/pkg/e"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/jimlawless/whereami"
)

// Notifier публикует события списка в канал Redis Pub/Sub.
type Notifier struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewNotifier(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *Notifier {
	return &Notifier{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Notify сериализует событие в JSON и отправляет его командой PUBLISH.
func (n *Notifier) Notify(ctx context.Context, event *usecase.ListChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	receivers, err := n.client.Client.Publish(ctx, n.cfg.Channel, data).Result()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	n.logger.Debugf("Redis event %s for product %s delivered to %d subscriber(s)", event.Type, event.Product.ID, receivers)

	return nil
}
