package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string
	OrdersPath string
	MenuPath   string
	UsersCSV   string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		Addr:       getenv("KANTINE_ADDR", ":7860"),
		OrdersPath: getenv("ORDERS_XLSX", "food_orders.xlsx"),
		MenuPath:   getenv("MENU_XLSX", "menu_data.xlsx"),
		UsersCSV:   getenv("USERS_CSV", "users.csv"),
	}
	log.Printf("[config] KANTINE_ADDR=%s", cfg.Addr)
	log.Printf("[config] ORDERS_XLSX=%s", cfg.OrdersPath)
	log.Printf("[config] MENU_XLSX=%s", cfg.MenuPath)
	log.Printf("[config] USERS_CSV=%s", cfg.UsersCSV)
	return cfg
}
