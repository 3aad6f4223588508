package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "condovote/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.records = append(p.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func TestSink_Send(t *testing.T) {
	t.Run("keys records by subject", func(t *testing.T) {
		p := &fakeProducer{}
		sink := &Sink{producer: p, topic: "governance.audit"}
		ts := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

		err := sink.Send(context.Background(), audit.Event{
			Category:   audit.CategoryConsistency,
			Timestamp:  ts,
			Subject:    "condo-1",
			ElectionID: "7",
			Action:     string(audit.EventConsistencyWarning),
		})
		require.NoError(t, err)
		require.Len(t, p.records, 1)

		rec := p.records[0]
		assert.Equal(t, "governance.audit", rec.Topic)
		assert.Equal(t, "condo-1", string(rec.Key))

		var msg message
		require.NoError(t, json.Unmarshal(rec.Value, &msg))
		assert.Equal(t, "consistency_warning", msg.Action)
		assert.Equal(t, "7", msg.ElectionID)
		assert.Equal(t, ts, msg.Timestamp)
	})

	t.Run("surfaces produce errors", func(t *testing.T) {
		sink := &Sink{producer: &fakeProducer{err: errors.New("not leader")}, topic: "t"}
		err := sink.Send(context.Background(), audit.Event{Subject: "c", Action: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not leader")
	})
}
