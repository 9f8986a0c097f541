package model

// CartItem references a catalog product. Product may be nil when the
// referenced product was deleted after the line was added; such lines
// price as zero.
type CartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// Cart is the server's authoritative snapshot for one account. Every
// mutation endpoint returns the whole replacement cart.
type Cart struct {
	ID       string     `json:"_id"`
	UserID   string     `json:"user"`
	Products []CartItem `json:"products"`
}
