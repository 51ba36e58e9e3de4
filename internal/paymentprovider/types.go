package paymentprovider

// Запрос на создание платёжной сессии в режиме подписки.
// ClientReferenceID несёт идентификатор пользователя: после редиректа
// клиенту больше не доверяют, покупателя резолвит webhook по этому полю.
type CreateCheckoutSessionRequest struct {
	Mode               string            `json:"mode"`
	LineItems          []LineItem        `json:"line_items"`
	SuccessURL         string            `json:"success_url"`
	CancelURL          string            `json:"cancel_url"`
	CustomerEmail      string            `json:"customer_email"`
	ClientReferenceID  string            `json:"client_reference_id"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	Metadata           map[string]string `json:"metadata"`
}

// LineItem — позиция платёжной сессии.
type LineItem struct {
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// CreateCheckoutSessionResponse — ответ провайдера на создание сессии.
type CreateCheckoutSessionResponse struct {
	ID string `json:"id"`
}

// PaymentIntent — сведения о платеже, к которому привязана сессия.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // сумма в минимальных единицах валюты
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateTransferRequest — запрос на перевод средств на счёт платформы.
type CreateTransferRequest struct {
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Destination   string `json:"destination"`
	TransferGroup string `json:"transfer_group"`
}

// Transfer — ответ провайдера на перевод средств.
type Transfer struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}
