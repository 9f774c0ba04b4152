package main

import (
	"log"
	"os"
	"time"

	"campusportal/internal/database"
)

// Clears expired one-time codes so stale hashes do not linger in the users
// table. Intended to run from cron.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	now := time.Now()

	res1 := db.Exec(`UPDATE users SET otp_hash = '', otp_expires_at = NULL WHERE otp_expires_at IS NOT NULL AND otp_expires_at < ?`, now)
	if res1.Error != nil {
		log.Fatalf("cleanup signup codes failed: %v", res1.Error)
	}

	res2 := db.Exec(`UPDATE users SET reset_otp_hash = '', reset_otp_expires_at = NULL WHERE reset_otp_expires_at IS NOT NULL AND reset_otp_expires_at < ?`, now)
	if res2.Error != nil {
		log.Fatalf("cleanup reset codes failed: %v", res2.Error)
	}

	log.Printf("auth cleanup completed: signup_codes=%d reset_codes=%d", res1.RowsAffected, res2.RowsAffected)
}
