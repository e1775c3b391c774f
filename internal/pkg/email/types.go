// internal/pkg/email/types.go
package email

// Email represents one outbound message
type Email struct {
	To          []string `json:"to"`
	Subject     string   `json:"subject"`
	HTMLContent string   `json:"html_content"`
	TextContent string   `json:"text_content"`
}

// OrderConfirmationData feeds the order confirmation template
type OrderConfirmationData struct {
	CustomerName string
	OrderNumber  string
	Items        []OrderConfirmationItem
	Subtotal     string
	Discount     string
	Tax          string
	Shipping     string
	Total        string
	StoreName    string
}

// OrderConfirmationItem is one line of the confirmation email
type OrderConfirmationItem struct {
	Name     string
	Quantity int
	Price    string
}
