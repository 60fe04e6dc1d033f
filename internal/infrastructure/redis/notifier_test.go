package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DRSN-tech/shopping-list/internal/cfg"
	"github.com/DRSN-tech/shopping-list/internal/domain"
	"github.com/DRSN-tech/shopping-list/internal/usecase"
	"github.com/DRSN-tech/shopping-list/pkg/clients"
	"github.com/DRSN-tech/shopping-list/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) (*Notifier, *miniredis.Miniredis, *clients.RedisClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisCfg := &cfg.RedisCfg{
		Addr:        mr.Addr(),
		Channel:     "shopping-list:events",
		DialTimeout: time.Second,
		Timeout:     time.Second,
	}
	client := clients.NewRedisClient(redisCfg)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	return NewNotifier(client, redisCfg, logger.NewNop()), mr, client
}

func TestNotifierPublishesEvent(t *testing.T) {
	ctx := context.Background()
	n, _, client := newTestNotifier(t)
	require.NoError(t, client.Ping(ctx))

	sub := client.Client.Subscribe(ctx, "shopping-list:events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	product := domain.Product{ID: "p-1", Name: "Milk", ShopID: 1, CategoryID: 3, IsBought: true}
	require.NoError(t, n.Notify(ctx, usecase.NewListChangedEvent(usecase.ChangeToggled, product, true, true)))

	select {
	case msg := <-sub.Channel():
		var got usecase.ListChangedEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, usecase.ChangeToggled, got.Type)
		assert.Equal(t, product, got.Product)
		assert.True(t, got.Completed)
		assert.True(t, got.JustCompleted)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestNotifierReturnsErrorWhenRedisIsDown(t *testing.T) {
	n, mr, _ := newTestNotifier(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := n.Notify(ctx, usecase.NewListChangedEvent(usecase.ChangeAdded, domain.Product{ID: "p-1"}, false, false))
	assert.Error(t, err)
}
