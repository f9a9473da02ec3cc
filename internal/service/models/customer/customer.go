package customer

// Customer is a read-only projection of the user who placed an order. It is
// owned by the identity service; this service only displays it.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}
