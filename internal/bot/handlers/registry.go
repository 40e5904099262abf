package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/ozodbek/kinokodbot/internal/gate"
)

// RegisteredHandler bundles a handler with its registration metadata and
// middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCallbacks returns every callback-query handler keyed by its
// action tag. Message updates go through the default-handler router instead,
// because session precedence has to be decided in one place.
func RegisterAllCallbacks(deps *Deps) map[string]RegisteredHandler {
	adminOnly := []tgbot.Middleware{AdminCallbackOnly(deps)}

	handlers := make(map[string]RegisteredHandler)

	handlers["check_sub"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     gate.ConfirmCallback,
		Handler:     NewSubConfirmHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}
	handlers["add_ch"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbAddChannel,
		Handler:     NewAddChannelHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  adminOnly,
	}
	handlers["del_ch"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbDeleteMenu,
		Handler:     NewDeleteMenuHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  adminOnly,
	}
	handlers["delete"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbDeletePrefix,
		Handler:     NewDeleteChannelHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
		Middleware:  adminOnly,
	}
	handlers["cancel_del"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbCancelDelete,
		Handler:     NewCancelDeleteHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
		Middleware:  adminOnly,
	}

	return handlers
}
