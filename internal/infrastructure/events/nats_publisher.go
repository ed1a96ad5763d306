// Package events publica los eventos del ciclo de vida de órdenes en NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/erp-saas-api/internal/application/orders"
)

// SubjectPrefix prefijo de los subjects: erp.orders.<empresa>.<tipo>.
const SubjectPrefix = "erp.orders"

var _ orders.Notifier = (*NATSPublisher)(nil)

type publisher interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher implementa orders.Notifier publicando JSON en NATS core.
// Un fallo de publicación se registra y no afecta a la orden ya confirmada.
type NATSPublisher struct {
	conn   publisher
	closer func()
}

// ConnectNATS conecta al servidor y devuelve el publicador.
func ConnectNATS(url, clientName string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name(clientName), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Info().Str("url", url).Msg("nats conectado")
	return &NATSPublisher{conn: nc, closer: func() { _ = nc.Drain() }}, nil
}

func newNATSPublisher(conn publisher) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Notify serializa el evento y lo publica en su subject.
func (p *NATSPublisher) Notify(_ context.Context, evt orders.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("type", evt.Type).Msg("events: serializar evento")
		return
	}
	subject := Subject(evt)
	if err := p.conn.Publish(subject, data); err != nil {
		log.Error().Err(err).Str("subject", subject).Str("order_id", evt.OrderID).Msg("events: publicar en nats")
	}
}

// Close drena la conexión (publicaciones pendientes se envían antes de cerrar).
func (p *NATSPublisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}

// Subject devuelve el subject NATS del evento, ej. erp.orders.<companyID>.created.
func Subject(evt orders.Event) string {
	kind := strings.TrimPrefix(evt.Type, "order.")
	return SubjectPrefix + "." + evt.CompanyID + "." + kind
}
