// Demo seeder: loads a farmer, two farms, a small herd, and a week of alert
// history into Postgres. Run the server once first so the schema and tables
// exist. Destructive for the demo farmer's data; requires -confirm.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	dsn      = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun   = flag.Bool("dry-run", false, "Print what would be inserted; no DB writes")
	confirm  = flag.Bool("confirm", false, "Required to replace existing demo data")
	username = flag.String("username", "demo-farmer", "Demo account username")
	password = flag.String("password", "DemoPass123!", "Demo account password")
)

type animalSeed struct {
	name    string
	tagID   string
	species string
	lat     float64
	lng     float64
	battery int
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	// Drakensberg foothills, KwaZulu-Natal.
	farmLat, farmLng := -28.7282, 29.4852

	animals := []animalSeed{
		{"Thandi", "TAG-001", "cattle", farmLat + 0.001, farmLng + 0.001, 92},
		{"Sipho", "TAG-002", "cattle", farmLat - 0.002, farmLng + 0.001, 67},
		{"Nandi", "TAG-003", "goat", farmLat + 0.002, farmLng - 0.001, 45},
		{"Bheki", "TAG-004", "sheep", farmLat - 0.001, farmLng - 0.002, 18},
		{"Zola", "TAG-005", "goat", farmLat + 0.0005, farmLng + 0.002, 81},
	}

	if *dryRun {
		fmt.Printf("would seed farmer %q, 2 farms, %d animals, ~12 alerts\n", *username, len(animals))
		return
	}
	if !*confirm {
		fatalf("refusing to replace demo data without --confirm")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("open database: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		fatalf("begin transaction: %v", err)
	}
	defer tx.Rollback()

	// Wipe any previous demo farmer and everything hanging off it.
	var oldID sql.NullString
	err = tx.QueryRow(`SELECT farmer_id FROM herdguard_auth.farmers WHERE username = $1`, *username).Scan(&oldID)
	if err != nil && err != sql.ErrNoRows {
		fatalf("look up demo farmer: %v", err)
	}
	if oldID.Valid {
		mustExec(tx, `DELETE FROM herdguard.alert_events WHERE animal_id IN (
			SELECT an.id FROM herdguard.animals an
			JOIN herdguard.farms f ON f.id = an.farm_id WHERE f.owner_id = $1)`, oldID.String)
		mustExec(tx, `DELETE FROM herdguard.animals WHERE farm_id IN (
			SELECT id FROM herdguard.farms WHERE owner_id = $1)`, oldID.String)
		mustExec(tx, `DELETE FROM herdguard.farms WHERE owner_id = $1`, oldID.String)
		mustExec(tx, `DELETE FROM herdguard.push_permissions WHERE farmer_id = $1`, oldID.String)
		mustExec(tx, `DELETE FROM herdguard_auth.sessions WHERE farmer_id = $1`, oldID.String)
		mustExec(tx, `DELETE FROM herdguard_auth.farmers WHERE farmer_id = $1`, oldID.String)
	}

	farmerID := uuid.NewString()
	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fatalf("hash password: %v", err)
	}
	mustExec(tx, `INSERT INTO herdguard_auth.farmers (farmer_id, username, hashed_password, role)
		VALUES ($1, $2, $3, 'farmer')`, farmerID, *username, string(hashed))

	mainFarm := uuid.NewString()
	mustExec(tx, `INSERT INTO herdguard.farms (id, owner_id, name, center_lat, center_lng, radius_m, area_ha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		mainFarm, farmerID, "Emadlelweni", farmLat, farmLng, 500.0, 78.5)

	emptyFarm := uuid.NewString()
	mustExec(tx, `INSERT INTO herdguard.farms (id, owner_id, name, center_lat, center_lng, radius_m, area_ha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL, now())`,
		emptyFarm, farmerID, "Karoo Camp", -32.2411, 22.5320, 800.0)

	animalIDs := make([]string, 0, len(animals))
	for _, a := range animals {
		id := uuid.NewString()
		animalIDs = append(animalIDs, id)
		mustExec(tx, `INSERT INTO herdguard.animals
			(id, farm_id, name, tag_id, species, lat, lng, battery_pct, last_seen_at, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), 'SAFE', now())`,
			id, mainFarm, a.name, a.tagID, a.species, a.lat, a.lng, a.battery)
	}

	// A week of history: a couple of alerts most days, older ones resolved.
	types := []string{"BOUNDARY_EXIT", "LOW_BATTERY", "INACTIVITY"}
	inserted := 0
	for dayOffset := 6; dayOffset >= 0; dayOffset-- {
		n := rand.Intn(3)
		if dayOffset == 0 {
			n = 2 // always something fresh to look at
		}
		for i := 0; i < n; i++ {
			animalID := animalIDs[rand.Intn(len(animalIDs))]
			alertType := types[rand.Intn(len(types))]
			createdAt := time.Now().AddDate(0, 0, -dayOffset).Add(-time.Duration(rand.Intn(8)) * time.Hour)

			resolved := dayOffset > 1
			var resolvedAt *time.Time
			if resolved {
				t := createdAt.Add(time.Duration(1+rand.Intn(6)) * time.Hour)
				resolvedAt = &t
			}

			// Respect the open-alert uniqueness: only one unresolved
			// (animal, type) pair may exist.
			if !resolved {
				var open int
				err := tx.QueryRow(`SELECT COUNT(*) FROM herdguard.alert_events
					WHERE animal_id = $1 AND type = $2 AND resolved = false`, animalID, alertType).Scan(&open)
				if err != nil {
					fatalf("check open alerts: %v", err)
				}
				if open > 0 {
					continue
				}
			}

			mustExec(tx, `INSERT INTO herdguard.alert_events
				(id, animal_id, type, message, created_at, resolved, resolved_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.NewString(), animalID, alertType,
				fmt.Sprintf("Seeded %s alert", alertType), createdAt, resolved, resolvedAt)
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Printf("seeded farmer %q (password %q), 2 farms, %d animals, %d alerts\n",
		*username, *password, len(animals), inserted)
}

func mustExec(tx *sql.Tx, query string, args ...interface{}) {
	if _, err := tx.Exec(query, args...); err != nil {
		fatalf("exec failed: %v\nquery: %s", err, query)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
