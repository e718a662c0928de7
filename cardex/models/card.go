package models

type CardClass string

const (
	CardClassVirtual  CardClass = "VIRTUAL"
	CardClassPhysical CardClass = "PHYSICAL"
)

type BlockState string

const (
	BlockStateActive  BlockState = "ACTIVE"
	BlockStateBlocked BlockState = "BLOCKED"
)

// BlockReason tells why a card is blocked. The zero value means no reason and
// is only meaningful together with BlockStateBlocked.
type BlockReason string

const (
	BlockReasonNone         BlockReason = ""
	BlockReasonInitialBlock BlockReason = "INITIAL_BLOCK"
	BlockReasonOwnerRequest BlockReason = "OWNER_REQUEST"
)

type ManufacturingState string

const (
	ManufacturingPending  ManufacturingState = "PENDING"
	ManufacturingEmbossed ManufacturingState = "EMBOSSED"
)

type Card struct {
	ID            string             `json:"id"`
	Class         CardClass          `json:"type"`
	BlockState    BlockState         `json:"status"`
	BlockReason   BlockReason        `json:"status_reason,omitempty"`
	Manufacturing ManufacturingState `json:"embossing_status,omitempty"`
	// Masked and Brand are display data supplied by the backend.
	Masked string `json:"masked,omitempty"`
	Brand  string `json:"brand,omitempty"`
}

func (c Card) IsPhysical() bool { return c.Class == CardClassPhysical }

func (c Card) IsBlocked() bool { return c.BlockState == BlockStateBlocked }

// IsEmbossed reports whether manufacturing is complete. Virtual cards are
// always embossed.
func (c Card) IsEmbossed() bool {
	return c.Class == CardClassVirtual || c.Manufacturing == ManufacturingEmbossed
}

// SensitiveData is the card data revealed by the backend on request.
type SensitiveData struct {
	PAN            string `json:"pan"`
	Expiry         string `json:"exp"` // YYYY-MM-DD
	CardholderName string `json:"cardholder_name"`
	CVV            string `json:"cvv"`
}
