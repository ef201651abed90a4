package models

// ErrorKind - категория ошибки предметной области.
type ErrorKind int

const (
	// KindInvalid - неверный ввод или нарушение бизнес-правила.
	KindInvalid ErrorKind = iota
	// KindNotFound - ссылка на несуществующую запись.
	KindNotFound
)

// DomainError - ошибка, код которой отдаётся клиенту как есть.
type DomainError struct {
	Code string
	Kind ErrorKind
}

func (e *DomainError) Error() string {
	return e.Code
}

// Invalid создаёт ошибку валидации с кодом code.
func Invalid(code string) *DomainError {
	return &DomainError{Code: code, Kind: KindInvalid}
}

// NotFound создаёт ошибку отсутствующей записи с кодом code.
func NotFound(code string) *DomainError {
	return &DomainError{Code: code, Kind: KindNotFound}
}
