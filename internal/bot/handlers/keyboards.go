package handlers

import "github.com/go-telegram/bot/models"

// Admin reply-keyboard button labels. The layouts below are fixed; only the
// free-text prompts around them come from config.
const (
	BtnUpload    = "🎬 Kino Yuklash"
	BtnStats     = "📊 Statistika"
	BtnBroadcast = "📢 Reklama Tarqatish"
	BtnChannels  = "📢 Kanallar Sozlamasi"
	BtnCancel    = "🚫 Bekor qilish"
)

// Callback data tags for the inline channel-management controls.
const (
	cbAddChannel   = "add_ch"
	cbDeleteMenu   = "del_ch"
	cbDeletePrefix = "delete_"
	cbCancelDelete = "cancel_del"
)

func adminKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: BtnUpload}, {Text: BtnStats}},
			{{Text: BtnBroadcast}, {Text: BtnChannels}},
		},
		ResizeKeyboard: true,
	}
}

func cancelKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: BtnCancel}},
		},
		ResizeKeyboard: true,
	}
}

func channelMenuKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "➕ Qo'shish", CallbackData: cbAddChannel}},
			{{Text: "➖ O'chirish", CallbackData: cbDeleteMenu}},
		},
	}
}
