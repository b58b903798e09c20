package herd

import (
	"log"

	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "herdguard"); err != nil {
		log.Fatal("Failed to create herdguard schema: ", err)
	}

	if err := db.DB.AutoMigrate(&Farm{}, &Animal{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
