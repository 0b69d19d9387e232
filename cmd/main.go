package main

import (
	_ "gw-currency-trader/docs"
	"gw-currency-trader/internal/app"
	"log"
)

// @title           Currency Trader API
// @version         1.0
// @description     Multi-currency wallet that buys and sells currencies against PLN at NBP table C rates.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}
