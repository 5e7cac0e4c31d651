package wallet

import (
	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// FilterTransactions оставляет транзакции с подходящим статусом, сохраняя исходный порядок.
func FilterTransactions(transactions []models.Transaction, filter valueobject.TransactionFilter) []models.Transaction {
	if filter == "" || filter == valueobject.TransactionFilterAll {
		out := make([]models.Transaction, len(transactions))
		copy(out, transactions)
		return out
	}

	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Status == string(filter) {
			out = append(out, t)
		}
	}
	return out
}

// CanRaiseDispute — оспорить можно только неуспешное начисление за задание, помеченное upstream.
func CanRaiseDispute(t models.Transaction) bool {
	return t.Status == models.TransactionStatusFailed &&
		t.Type == models.TransactionTypeEarning &&
		t.CanDispute
}

// Tone — цветовая группа строки истории.
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneYellow Tone = "yellow"
	ToneRed    Tone = "red"
	ToneBlue   Tone = "blue"
	TonePurple Tone = "purple"
	ToneGray   Tone = "gray"
)

// Style описывает, как показать транзакцию в истории.
type Style struct {
	Prefix        string `json:"prefix"`
	Tone          Tone   `json:"tone"`
	Strikethrough bool   `json:"strikethrough"`
}

// StyleFor выбирает знак и цвет суммы по типу и статусу транзакции.
func StyleFor(txType, status string) Style {
	switch txType {
	case models.TransactionTypeWithdrawal:
		return Style{Prefix: "-", Tone: ToneBlue}
	case models.TransactionTypeReferralBonus:
		return Style{Prefix: "+", Tone: TonePurple}
	}

	switch status {
	case models.TransactionStatusCompleted:
		return Style{Prefix: "+", Tone: ToneGreen}
	case models.TransactionStatusPending:
		return Style{Prefix: "+", Tone: ToneYellow}
	case models.TransactionStatusFailed:
		return Style{Prefix: "+", Tone: ToneRed, Strikethrough: true}
	default:
		return Style{Tone: ToneGray}
	}
}

// TitleFor возвращает заголовок строки истории.
func TitleFor(t models.Transaction) string {
	if t.Type == models.TransactionTypeReferralBonus {
		return "Referral Bonus"
	}
	if t.Task != nil && t.Task.Title != "" {
		return t.Task.Title
	}
	return "Withdrawal"
}

// HistoryItem — транзакция вместе с данными для показа.
type HistoryItem struct {
	models.Transaction
	Title           string `json:"title"`
	Style           Style  `json:"style"`
	DisplayAmount   string `json:"display_amount"`
	CanRaiseDispute bool   `json:"can_raise_dispute"`
}

// BuildHistory фильтрует транзакции и готовит их к показу в валюте отображения.
func BuildHistory(transactions []models.Transaction, filter valueobject.TransactionFilter, currency valueobject.Currency) []HistoryItem {
	filtered := FilterTransactions(transactions, filter)
	items := make([]HistoryItem, 0, len(filtered))
	for _, t := range filtered {
		style := StyleFor(t.Type, t.Status)
		items = append(items, HistoryItem{
			Transaction:     t,
			Title:           TitleFor(t),
			Style:           style,
			DisplayAmount:   style.Prefix + currency.Format(t.Amount.Abs()),
			CanRaiseDispute: CanRaiseDispute(t),
		})
	}
	return items
}
