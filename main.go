package main

import "inmocrm/internal/app"

// @title           InmoCRM API
// @version         1.0
// @description     Sales pipeline for real-estate lot developments: leads, quotations, reservations and payments.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
