// Package money реализует работу с ценой сервиса как с фиксированной точкой.
//
// Цена принимается строкой вида "149.99", валидируется паттерном и хранится
// в центах (int64). Обратное преобразование в строку выполняется только здесь,
// чтобы по коду не расползались повторные parse/format вызовы.
package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pricePattern — допустимый формат цены: целая часть и не более двух знаков после точки.
var pricePattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ParseCents парсит строку цены в центы.
// Возвращает ошибку, если строка не соответствует формату 99.99.
func ParseCents(price string) (int64, error) {
	const op = "money.ParseCents"
	if !pricePattern.MatchString(price) {
		return 0, fmt.Errorf("%s: invalid price format: %q", op, price)
	}

	whole, frac, _ := strings.Cut(price, ".")
	cents, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	cents *= 100

	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		cents += f
	}
	return cents, nil
}

// FormatCents форматирует центы в строку вида "149.99".
// Единственная точка сериализации цены в текст.
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
