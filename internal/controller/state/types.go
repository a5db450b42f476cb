package state

// UserState текущий шаг диалога оператора
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Запись клиента на выбранный слот
	StateBookCustomer UserState = "book_customer"
	StateBookPayment  UserState = "book_payment"
)

// Ключи временных данных диалога
const (
	KeySlotID     = "slot_id"
	KeyServiceID  = "service_id"
	KeyCustomerID = "customer_id"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]string
}
