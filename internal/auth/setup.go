package auth

import (
	"log"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "herdguard_auth"); err != nil {
		log.Fatal("Failed to ensure schema herdguard_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&Farmer{}, &Session{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
