package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gift_wheel/pkg/httpx/reply"
	"gift_wheel/pkg/middlewarex"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/gifts", func(r chi.Router) {
			// unauthorized zone
			r.Get("/min-price", handler(s.getMinPrice))
			r.Get("/listings", handler(s.getListings))

			// user zone
			r.Group(func(r chi.Router) {
				r.Use(middlewarex.UserID)

				r.Post("/by-price", handler(s.postWheel))
				r.Post("/start-game", handler(s.postStartGame))
				r.Post("/buy-back", handler(s.postBuyBack))
				r.Get("/inventory", handler(s.getInventory))
			})
		})

		r.With(middlewarex.UserID).Get("/balance", handler(s.getBalance))

		// internal zone, закрыта на уровне сети
		r.Route("/nft", func(r chi.Router) {
			r.Post("/purchase", handler(s.postPurchase))
			r.Post("/transfer", handler(s.postTransfer))
			r.Post("/send-ton", handler(s.postSendTon))
			r.Get("/verify/{saleAddress}", handler(s.getVerify))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
