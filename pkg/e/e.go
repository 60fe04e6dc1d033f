package e

import "fmt"

var (
	// Классы ошибок, по которым вызывающая сторона решает, как реагировать
	ErrValidation = fmt.Errorf("validation error")
	ErrNotFound   = fmt.Errorf("not found")

	// 400 Bad Request
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrShopRequired        = fmt.Errorf("shop is required")
	ErrCategoryRequired    = fmt.Errorf("category is required")
	ErrUnknownShop         = fmt.Errorf("unknown shop")
	ErrUnknownCategory     = fmt.Errorf("unknown category")
	ErrUnknownStatus       = fmt.Errorf("unknown purchase status")
	ErrInvalidID           = fmt.Errorf("invalid id")
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrEmptyRequest        = fmt.Errorf("empty request")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

	// Очередь событий
	ErrEventQueueFull   = fmt.Errorf("event queue is full")
	ErrDispatcherClosed = fmt.Errorf("event dispatcher is closed")

	// Ошибки окружения
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError помечает причину как ошибку валидации.
// errors.Is срабатывает и для ErrValidation, и для самой причины.
func ValidationError(cause error) error {
	return fmt.Errorf("%w: %w", ErrValidation, cause)
}
