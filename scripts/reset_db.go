package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Development helper: wipes all ledger data while keeping users and
// catalogs, then resets the sequences.
func main() {
	fmt.Println("This will DELETE all production, reception, stock and history rows.")
	fmt.Print("Type 'yes' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	confirm, _ := reader.ReadString('\n')
	if confirm != "yes\n" {
		fmt.Println("Aborted.")
		return
	}

	godotenv.Load()

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	pass := os.Getenv("DB_PASSWORD")
	name := envOr("DB_NAME", "scrap_db")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer pool.Close()

	statements := []string{
		`TRUNCATE registros_scrap_historial, recepciones_scrap_historial RESTART IDENTITY CASCADE`,
		`TRUNCATE stock_movimientos, stock_scrap RESTART IDENTITY CASCADE`,
		`TRUNCATE registro_scrap_detalles, registros_scrap RESTART IDENTITY CASCADE`,
		`TRUNCATE recepciones_scrap RESTART IDENTITY CASCADE`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(context.Background(), stmt); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
	}

	fmt.Println("Done.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
