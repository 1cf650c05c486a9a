package entity

import "time"

// BusinessOwner dueño de negocio al que se factura.
type BusinessOwner struct {
	ID           string
	FullName     string
	BusinessName string
	Email        string
	Phone        string
	Address      string
	CreatedAt    time.Time
}

// DisplayName nombre a mostrar en búsquedas y en "Facturado a".
func (o *BusinessOwner) DisplayName() string {
	if o.BusinessName == "" {
		return o.FullName
	}
	if o.FullName == "" {
		return o.BusinessName
	}
	return o.FullName + " (" + o.BusinessName + ")"
}
