package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BuildOrderID формирует order_id вида {transactionID}-{unixTimestamp}.
// Суффикс делает id уникальным для шлюза при повторных попытках.
func BuildOrderID(transactionID uint, at time.Time) string {
	return fmt.Sprintf("%d-%d", transactionID, at.Unix())
}

// TransactionIDFromOrderID возвращает ведущий числовой сегмент order_id.
func TransactionIDFromOrderID(orderID string) (uint, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(orderID), "-")
	if head == "" {
		return 0, ErrInvalidOrderID
	}
	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidOrderID
	}
	return uint(id), nil
}
