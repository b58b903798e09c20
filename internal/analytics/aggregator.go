// Package analytics computes batch statistics over the alert and herd corpus.
// Everything is recomputed fresh per request — no cache, no incremental
// maintenance — so cost scales with total alert/animal count, which is fine
// at farm scale.
package analytics

import (
	"context"
	"math"
	"time"

	"github.com/lib/pq"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/alerts"
	"github.com/siyanda-zama/imfuyo-yam-sub000/internal/herd"
	"gorm.io/gorm"
)

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Summary struct {
	ByType                 map[string]int `json:"byType"`
	TotalAlerts            int            `json:"totalAlerts"`
	ActiveAlerts           int            `json:"activeAlerts"`
	ResolutionRate         int            `json:"resolutionRate"`
	AvgResolutionTimeHours float64        `json:"avgResolutionTimeHours"`
	RecentTrend            []TrendPoint   `json:"recentTrend"`
}

type ProvinceRisk struct {
	Province   string `json:"province"`
	OpenAlerts int    `json:"open_alerts"`
	RiskLevel  string `json:"risk_level"`
}

type FarmReport struct {
	FarmID      string `json:"farm_id"`
	Name        string `json:"name"`
	HealthScore int    `json:"healthScore"`
	AlertCount  int    `json:"alertCount"`
	Province    string `json:"province"`
	AnimalCount int    `json:"animalCount"`
}

type Aggregator struct {
	db         *gorm.DB
	classifier ProvinceClassifier
	now        func() time.Time
}

func NewAggregator(db *gorm.DB, classifier ProvinceClassifier) *Aggregator {
	return &Aggregator{
		db:         db,
		classifier: classifier,
		now:        time.Now,
	}
}

// Summary builds the alert analytics for one owner, or globally when
// ownerID is empty.
func (a *Aggregator) Summary(ctx context.Context, ownerID string) (*Summary, error) {
	q := a.db.WithContext(ctx).Model(&alerts.AlertEvent{})
	if ownerID != "" {
		q = q.
			Joins("JOIN herdguard.animals ON herdguard.animals.id = herdguard.alert_events.animal_id").
			Joins("JOIN herdguard.farms ON herdguard.farms.id = herdguard.animals.farm_id").
			Where("herdguard.farms.owner_id = ?", ownerID)
	}

	var events []alerts.AlertEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}

	summary := ComputeSummary(events, a.now())
	return &summary, nil
}

// ComputeSummary is the pure half of Summary, split out so the statistical
// properties are testable without a database.
func ComputeSummary(events []alerts.AlertEvent, now time.Time) Summary {
	byType := map[string]int{}
	resolved := 0
	active := 0
	for _, e := range events {
		byType[e.Type]++
		if e.Resolved {
			resolved++
		} else {
			active++
		}
	}

	return Summary{
		ByType:                 byType,
		TotalAlerts:            len(events),
		ActiveAlerts:           active,
		ResolutionRate:         ResolutionRate(resolved, len(events)),
		AvgResolutionTimeHours: AvgResolutionHours(events),
		RecentTrend:            RecentTrend(events, now),
	}
}

// ResolutionRate is round(100 * resolved/total), and 0 for an empty corpus.
func ResolutionRate(resolved, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(resolved) / float64(total)))
}

// AvgResolutionHours averages (resolvedAt - createdAt) over alerts that are
// resolved and carry a resolution timestamp, rounded to one decimal. 0 when
// no such alerts exist.
func AvgResolutionHours(events []alerts.AlertEvent) float64 {
	var total float64
	count := 0
	for _, e := range events {
		if !e.Resolved || e.ResolvedAt == nil {
			continue
		}
		total += e.ResolvedAt.Sub(e.CreatedAt).Hours()
		count++
	}
	if count == 0 {
		return 0
	}
	return math.Round(total/float64(count)*10) / 10
}

// RecentTrend counts alerts per local calendar day over the last 7 days,
// oldest to newest, today inclusive. Always exactly 7 points.
func RecentTrend(events []alerts.AlertEvent, now time.Time) []TrendPoint {
	trend := make([]TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		point := TrendPoint{Date: day.Format("2006-01-02")}
		for _, e := range events {
			created := e.CreatedAt.In(now.Location())
			if created.Year() == day.Year() && created.YearDay() == day.YearDay() {
				point.Count++
			}
		}
		trend = append(trend, point)
	}
	return trend
}

// RegionalRisk buckets every farm into a province and thresholds the open
// alert count per province into a risk level.
func (a *Aggregator) RegionalRisk(ctx context.Context) ([]ProvinceRisk, error) {
	var farms []herd.Farm
	if err := a.db.WithContext(ctx).Find(&farms).Error; err != nil {
		return nil, err
	}

	type farmOpen struct {
		FarmID string
		Open   int
	}
	var rows []farmOpen
	err := a.db.WithContext(ctx).Raw(`
		SELECT f.id AS farm_id, COUNT(a.id) AS open
		FROM herdguard.farms f
		LEFT JOIN herdguard.animals an ON an.farm_id = f.id
		LEFT JOIN herdguard.alert_events a ON a.animal_id = an.id AND a.resolved = false
		GROUP BY f.id
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	openByFarm := make(map[string]int, len(rows))
	for _, r := range rows {
		openByFarm[r.FarmID] = r.Open
	}

	openByProvince := map[string]int{}
	for _, farm := range farms {
		province := a.classifier.Classify(farm.CenterLat, farm.CenterLng)
		openByProvince[province] += openByFarm[farm.ID]
	}

	risks := make([]ProvinceRisk, 0, len(openByProvince))
	for province, open := range openByProvince {
		risks = append(risks, ProvinceRisk{
			Province:   province,
			OpenAlerts: open,
			RiskLevel:  RiskLevel(open),
		})
	}
	return risks, nil
}

// RiskLevel thresholds an open-alert count: low (0-1), medium (2-3), high (4+).
func RiskLevel(openAlerts int) string {
	switch {
	case openAlerts >= 4:
		return "high"
	case openAlerts >= 2:
		return "medium"
	default:
		return "low"
	}
}

// FarmReports builds per-farm analytics for one owner.
func (a *Aggregator) FarmReports(ctx context.Context, ownerID string) ([]FarmReport, error) {
	var farms []herd.Farm
	err := a.db.WithContext(ctx).Preload("Animals").
		Where("owner_id = ?", ownerID).Find(&farms).Error
	if err != nil {
		return nil, err
	}

	reports := make([]FarmReport, 0, len(farms))
	for _, farm := range farms {
		open, err := a.openAlertsForAnimals(ctx, animalIDs(farm.Animals))
		if err != nil {
			return nil, err
		}

		safe := 0
		var batterySum float64
		for _, animal := range farm.Animals {
			if animal.Status == herd.StatusSafe {
				safe++
			}
			batterySum += float64(animal.BatteryPct)
		}
		avgBattery := 0.0
		if len(farm.Animals) > 0 {
			avgBattery = batterySum / float64(len(farm.Animals))
		}

		reports = append(reports, FarmReport{
			FarmID:      farm.ID,
			Name:        farm.Name,
			HealthScore: HealthScore(len(farm.Animals), safe, avgBattery, open),
			AlertCount:  open,
			Province:    a.classifier.Classify(farm.CenterLat, farm.CenterLng),
			AnimalCount: len(farm.Animals),
		})
	}
	return reports, nil
}

func animalIDs(animals []herd.Animal) []string {
	ids := make([]string, 0, len(animals))
	for _, a := range animals {
		ids = append(ids, a.ID)
	}
	return ids
}

func (a *Aggregator) openAlertsForAnimals(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := a.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM herdguard.alert_events
		WHERE resolved = false AND animal_id = ANY(?)
	`, pq.Array(ids)).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// HealthScore is the composite 0-100 farm metric:
// 50*safeRatio + 30*(avgBattery/100) + penalty, where penalty is 20 with no
// open alerts and max(0, 20-open*5) otherwise. A farm with no animals scores 0.
func HealthScore(totalAnimals, safeAnimals int, avgBatteryPct float64, openAlerts int) int {
	if totalAnimals == 0 {
		return 0
	}
	safeRatio := float64(safeAnimals) / float64(totalAnimals)
	penalty := 20.0
	if openAlerts > 0 {
		penalty = math.Max(0, 20-float64(openAlerts)*5)
	}
	score := 50*safeRatio + 30*(avgBatteryPct/100) + penalty
	return int(math.Round(score))
}
