// @title           Hajj & Umrah Booking API
// @version         1.0
// @description     API бронирования пакетов Хадж и Умра с оплатой через Midtrans Snap.
// @contact.name    Hajj Booking
// @contact.email   support@hajj-booking.local
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"os"

	"hajj_backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
