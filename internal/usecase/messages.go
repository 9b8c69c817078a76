package usecase

import "fmt"

// Alert texts are Telegram Markdown. Symbols are shown raw (without the
// exchange suffix used for quoting) because that is how they are stored.

func zoneApproachMsg(ticker, zoneID string, proximal, dayLow float64) string {
	return fmt.Sprintf("📶 *%s* zone approaching\nZone ID: `%s`\nProximal: ₹%.2f, Day Low: ₹%.2f",
		ticker, zoneID, proximal, dayLow)
}

func zoneEntryMsg(ticker, zoneID string, proximal, dayLow float64) string {
	return fmt.Sprintf("🎯 *%s* zone entry hit!\nZone ID: `%s`\nProximal: ₹%.2f, Day Low: ₹%.2f",
		ticker, zoneID, proximal, dayLow)
}

func zoneBreachMsg(ticker, zoneID string, distal, dayLow float64) string {
	return fmt.Sprintf("🛑 *%s* zone breached distal!\nZone ID: `%s`\nDistal: ₹%.2f, Day Low: ₹%.2f\n⛔ Marking as not fresh",
		ticker, zoneID, distal, dayLow)
}

func tradeApproachMsg(symbol string, entry, dayLow float64) string {
	return fmt.Sprintf("⚠️ *%s* approaching entry ₹%.2f\nDay Low: ₹%.2f", symbol, entry, dayLow)
}

func tradeEntryMsg(symbol string, entry, dayLow float64) string {
	return fmt.Sprintf("✅ *%s* entry hit ₹%.2f\nDay Low: ₹%.2f", symbol, entry, dayLow)
}
