package utils

// ValidateLuhn проверяет номер карты по алгоритму Луна.
// Пустая строка и любые нецифровые символы считаются ошибкой.
func ValidateLuhn(number string) bool {
	if number == "" {
		return false
	}
	var sum int
	parity := len(number) % 2
	for i, r := range number {
		if r < '0' || r > '9' {
			return false
		}
		digit := int(r - '0')
		if i%2 == parity {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}
	return sum%10 == 0
}

// DigitsOnly оставляет в строке только цифры.
func DigitsOnly(value string) string {
	digits := make([]rune, 0, len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	return string(digits)
}
