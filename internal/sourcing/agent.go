package sourcing

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bitthal/Deals-Agent/internal/events"
	"github.com/bitthal/Deals-Agent/internal/upswap"
)

// Marketplace lists vendors and local activities. Satisfied by
// *upswap.Client.
type Marketplace interface {
	ListVendors(ctx context.Context) ([]upswap.Vendor, error)
	ListActivities(ctx context.Context) ([]upswap.Activity, error)
}

// Agent is the event sourcing worker: it matches each vendor with the
// nearest marketplace activity and appends local_event rows for the
// processing agent to pick up. Dedup on activity_id keeps repeated ticks
// from re-raising the same activity.
type Agent struct {
	market   Marketplace
	events   events.Repository
	radiusKM float64
	interval time.Duration
}

func NewAgent(market Marketplace, ev events.Repository, radiusKM float64, interval time.Duration) *Agent {
	return &Agent{
		market:   market,
		events:   ev,
		radiusKM: radiusKM,
		interval: interval,
	}
}

func (a *Agent) Run(ctx context.Context) {
	log.Printf("event sourcer started interval=%s radius=%.1fkm", a.interval, a.radiusKM)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("event sourcer stopped")
			return
		case <-ticker.C:
			a.RunOnce(ctx)
		}
	}
}

func (a *Agent) RunOnce(ctx context.Context) {
	vendors, err := a.market.ListVendors(ctx)
	if err != nil {
		log.Printf("listing vendors failed: %v", err)
		return
	}
	activities, err := a.market.ListActivities(ctx)
	if err != nil {
		log.Printf("listing activities failed: %v", err)
		return
	}
	if len(vendors) == 0 || len(activities) == 0 {
		return
	}

	var inserted int
	for _, v := range vendors {
		activity, distance := nearestActivity(v.Latitude, v.Longitude, activities)
		if activity == nil || distance > a.radiusKM {
			continue
		}

		activityID := activity.ActivityID
		e := &events.Event{
			VendorID:     v.VendorID,
			LocationUUID: uuid.New(),
			ActivityID:   &activityID,
			TriggerPoint: events.TriggerLocalEvent,
			Details: map[string]any{
				"title":       activity.Title,
				"location":    activity.Location,
				"start_date":  activity.StartDate,
				"end_date":    activity.EndDate,
				"category":    activity.Category,
				"distance_km": math.Round(distance*100) / 100,
			},
			Latitude:  activity.Latitude,
			Longitude: activity.Longitude,
			Timestamp: time.Now().UTC(),
		}

		ok, err := a.events.Insert(ctx, e)
		if err != nil {
			log.Printf("vendor=%s storing event failed: %v", v.VendorID, err)
			continue
		}
		if ok {
			inserted++
			log.Printf("vendor=%s event=%d activity=%s distance=%.1fkm",
				v.VendorID, e.ID, activity.ActivityID, distance)
		}
	}

	if inserted > 0 {
		log.Printf("sourced %d new events", inserted)
	}
}

// nearestActivity returns the closest activity by haversine distance.
func nearestActivity(lat, lon float64, activities []upswap.Activity) (*upswap.Activity, float64) {
	var nearest *upswap.Activity
	minDistance := math.Inf(1)

	for i := range activities {
		d := haversineKM(lat, lon, activities[i].Latitude, activities[i].Longitude)
		if d < minDistance {
			minDistance = d
			nearest = &activities[i]
		}
	}
	return nearest, minDistance
}

// haversineKM is the great-circle distance between two coordinates.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
