package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/rs/zerolog"
)

// API gateway: routes /api/v1/* to the user, item and booking services.
func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "api").Logger()

	userServiceURL, _ := url.Parse(getEnv("USER_SERVICE_URL", "http://localhost:8083"))
	itemServiceURL, _ := url.Parse(getEnv("ITEM_SERVICE_URL", "http://localhost:8081"))
	bookingServiceURL, _ := url.Parse(getEnv("BOOKING_SERVICE_URL", "http://localhost:8082"))

	userProxy := httputil.NewSingleHostReverseProxy(userServiceURL)
	itemProxy := httputil.NewSingleHostReverseProxy(itemServiceURL)
	bookingProxy := httputil.NewSingleHostReverseProxy(bookingServiceURL)

	http.Handle("/api/v1/users", http.StripPrefix("/api/v1", userProxy))
	http.Handle("/api/v1/users/", http.StripPrefix("/api/v1", userProxy))
	http.Handle("/api/v1/auth/", http.StripPrefix("/api/v1", userProxy))
	http.Handle("/api/v1/items", http.StripPrefix("/api/v1", itemProxy))
	http.Handle("/api/v1/items/", http.StripPrefix("/api/v1", itemProxy))
	http.Handle("/api/v1/bookings", http.StripPrefix("/api/v1", bookingProxy))
	http.Handle("/api/v1/bookings/", http.StripPrefix("/api/v1", bookingProxy))

	port := getEnv("PORT", "8080")
	logger.Info().Str("port", port).Msg("API gateway listening")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Fatal().Err(err).Msg("gateway stopped")
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
