package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v3"

	"cgspins/internal/config"
	"cgspins/internal/pkg/utils"
)

// KeyboardBuilder constructs the bot's inline keyboards.
type KeyboardBuilder struct{}

func NewKeyboardBuilder() *KeyboardBuilder {
	return &KeyboardBuilder{}
}

// MainMenu is attached to the welcome message.
func (kb *KeyboardBuilder) MainMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("🎁 Buy package", "show_packages")),
		menu.Row(menu.Data("📊 My stats", "show_stats")),
	)
	return menu
}

// Packages lists the catalogue, cheapest first.
func (kb *KeyboardBuilder) Packages() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	var rows []tele.Row
	for _, key := range []string{"bronze", "silver", "gold", "black"} {
		pkg := config.Packages[key]
		label := fmt.Sprintf("%s - %s TON / %d⭐ (%d spins)",
			pkg.Name, utils.FormatTON(pkg.AmountNano), pkg.PriceStars, pkg.Spins)
		rows = append(rows, menu.Row(menu.Data(label, "pkg:"+pkg.Key)))
	}
	menu.Inline(rows...)
	return menu
}

// PaymentMethods offers the two rails for a selected package.
func (kb *KeyboardBuilder) PaymentMethods(packageKey string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(
			menu.Data("💎 Pay with TON", "pay_ton:"+packageKey),
			menu.Data("⭐ Pay with Stars", "pay_stars:"+packageKey),
		),
	)
	return menu
}

// CancelPayment is attached to TON transfer instructions.
func (kb *KeyboardBuilder) CancelPayment() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(menu.Data("❌ Cancel payment", "cancel_payment")),
	)
	return menu
}
