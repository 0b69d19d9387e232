package models

type FavoriteRequest struct {
	CurrencyCode string `json:"currency_code" example:"EUR"`
}

type FavoritesResponse struct {
	FavoriteCurrencies []string `json:"favorite_currencies"`
}
