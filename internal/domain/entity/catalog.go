package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Device dispositivo POS vendible (terminal, impresora, lector).
type Device struct {
	ID    string
	Brand string
	Type  string
	Price decimal.Decimal
}

// DisplayName marca + tipo.
func (d *Device) DisplayName() string {
	return strings.TrimSpace(d.Brand + " " + d.Type)
}

// SubscriptionPackage paquete de suscripción al software POS.
type SubscriptionPackage struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	DurationMonths int
}

// DisplayName nombre del paquete.
func (p *SubscriptionPackage) DisplayName() string { return p.Name }
