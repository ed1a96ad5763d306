package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-saas-api/internal/application/orders"
)

type recordingConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *recordingConn) Publish(subj string, data []byte) error {
	c.subjects = append(c.subjects, subj)
	c.payloads = append(c.payloads, data)
	return c.err
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "erp.orders.c1.created", Subject(orders.Event{Type: orders.EventOrderCreated, CompanyID: "c1"}))
	assert.Equal(t, "erp.orders.c1.cancellation_requested", Subject(orders.Event{Type: orders.EventCancellationRequested, CompanyID: "c1"}))
}

func TestNotify_PublicaJSON(t *testing.T) {
	conn := &recordingConn{}
	p := newNATSPublisher(conn)

	p.Notify(context.Background(), orders.Event{
		Type: orders.EventOrderCancelled, OrderID: "o1", CompanyID: "c1", Total: decimal.NewFromInt(3000),
	})

	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "erp.orders.c1.cancelled", conn.subjects[0])
	var got map[string]any
	require.NoError(t, json.Unmarshal(conn.payloads[0], &got))
	assert.Equal(t, "o1", got["orderId"])
	assert.Equal(t, "3000", got["total"])
}

func TestNotify_ErrorNoPropaga(t *testing.T) {
	conn := &recordingConn{err: errors.New("desconectado")}
	p := newNATSPublisher(conn)

	assert.NotPanics(t, func() {
		p.Notify(context.Background(), orders.Event{Type: orders.EventOrderCreated, CompanyID: "c1"})
	})
}
