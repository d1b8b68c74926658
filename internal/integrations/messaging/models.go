package messaging

// Channel канал доставки сообщения
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// SendRequest запрос на отправку уведомления через шлюз
// Контракт внешнего коллаборатора: send(payload) -> {success, error}
type SendRequest struct {
	Channel   Channel                `json:"channel"`
	Recipient string                 `json:"recipient"` // email или телефон
	Template  string                 `json:"template"`
	Payload   map[string]interface{} `json:"payload"`
}

// SendResponse ответ шлюза
type SendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
