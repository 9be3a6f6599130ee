package client

import (
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// Record is one merchant's registration. The JSON tags are the legacy blob
// layout; stored records from every portal version decode into it.
type Record struct {
	NIT          domain.NIT `json:"nit"`
	Name         string     `json:"name"`
	SchemeKey    string     `json:"certificationType"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified time.Time  `json:"lastModified"`
}
