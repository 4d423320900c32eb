package complete_questionnaire

// Request модель входящего вебхука анкеты
type Request struct {
	Email string
}

// Response результат обработки анкеты
type Response struct {
	// Matched false, если у клиента нет бронирования с незаполненной анкетой
	Matched        bool
	BookingID      int64
	BrochureQueued bool
}
