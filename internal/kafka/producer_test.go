package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gw-currency-trader/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent() models.TradeEvent {
	return models.TradeEvent{
		TransactionID: uuid.NewString(),
		UserID:        uuid.New(),
		Type:          "buy",
		CurrencyCode:  "USD",
		Amount:        "10000.0000",
		Price:         "4.1000",
		PLNValue:      "41000.0000",
		Timestamp:     time.Now().UTC(),
	}
}

func TestNewSaramaConfig_Valid(t *testing.T) {
	cfg := NewSaramaConfig("gw-currency-trader")

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
}

func TestTradeProducer_Encode(t *testing.T) {
	event := testEvent()
	p := newTradeProducer(mocks.NewSyncProducer(t, nil), "trade-events", discardLogger())

	msg, err := p.encode(event)
	require.NoError(t, err)

	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, event.UserID.String(), string(key))
	assert.Equal(t, "trade-events", msg.Topic)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "trade.buy", string(msg.Headers[0].Value))
}

func TestTradeProducer_SendTradeEvent(t *testing.T) {
	event := testEvent()

	t.Run("publishes json payload", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got models.TradeEvent
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.TransactionID != event.TransactionID || got.PLNValue != "41000.0000" {
				return errors.New("unexpected payload")
			}
			return nil
		})

		p := newTradeProducer(sp, "trade-events", discardLogger())

		assert.NoError(t, p.SendTradeEvent(context.Background(), event))
		require.NoError(t, p.Close())
	})

	t.Run("broker error", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p := newTradeProducer(sp, "trade-events", discardLogger())

		assert.ErrorIs(t, p.SendTradeEvent(context.Background(), event), sarama.ErrOutOfBrokers)
		require.NoError(t, p.Close())
	})

	t.Run("canceled context skips the send", func(t *testing.T) {
		sp := mocks.NewSyncProducer(t, nil)
		p := newTradeProducer(sp, "trade-events", discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, p.SendTradeEvent(ctx, event), context.Canceled)
		require.NoError(t, p.Close())
	})
}

func TestLogProducer(t *testing.T) {
	p := NewLogProducer(discardLogger())

	assert.NoError(t, p.SendTradeEvent(context.Background(), testEvent()))
	assert.NoError(t, p.Close())
}
