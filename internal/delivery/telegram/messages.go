package telegram

const (
	msgInternalError = "😔 Произошла внутренняя ошибка. Попробуйте ещё раз чуть позже или отправьте /start."
)
