package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/selimhehe1/pattamap/internal/zonemap"
)

// Zone presets. In production these come from the zone API; the presets
// keep the editor usable offline and double as documentation of the
// four shape classes.
var zones = map[string]zonemap.Config{
	"walking-street": {
		ZoneID: "walking-street", Name: "Walking Street",
		Shape:  zonemap.ShapeHorizontal,
		StartX: 6, EndX: 94, StartY: 34, EndY: 66,
		MaxRows: 2, MaxCols: 10,
	},
	"soi-6": {
		ZoneID: "soi-6", Name: "Soi 6",
		Shape:  zonemap.ShapeVertical,
		StartX: 36, EndX: 64, StartY: 8, EndY: 92,
		MaxRows: 2, MaxCols: 8,
	},
	"beach-road": {
		ZoneID: "beach-road", Name: "Beach Road",
		Shape:  zonemap.ShapeLShape,
		StartX: 6, EndX: 94, StartY: 30, EndY: 90,
		CornerX: 78, CornerY: 42,
		MaxRows: 2, MaxCols: 9,
	},
	"marina-plaza": {
		ZoneID: "marina-plaza", Name: "Marina Plaza",
		Shape:  zonemap.ShapeUShape,
		StartX: 14, EndX: 86, StartY: 16, EndY: 80,
		MaxRows: 2, MaxCols: 8,
	},
}

func main() {
	var (
		zoneID  = flag.String("zone", "walking-street", "zone to edit")
		apiBase = flag.String("api", "http://localhost:8080/api", "position API base URL")
		feedURL = flag.String("feed", "", "websocket entity feed URL (empty = demo data)")
		canEdit = flag.Bool("edit", true, "whether this session may edit the layout")
		cutoff  = flag.Int("mobile-cutoff", 768, "container width at or below which the mobile layout applies")
	)
	flag.Parse()

	cfg, ok := zones[*zoneID]
	if !ok {
		log.Fatalf("unknown zone %q", *zoneID)
	}
	cfg.MobileWidthCutoff = *cutoff

	var source zonemap.DataSource
	if *feedURL != "" {
		source = zonemap.NewFeedSource(*feedURL)
	} else {
		source = zonemap.NewStaticSource(demoEntities(cfg))
	}

	view := zonemap.NewView(cfg, zonemap.NewHTTPPersister(*apiBase), source)
	view.SetPermission(func() bool { return *canEdit })
	view.SetOnSelect(func(e zonemap.Entity) {
		log.Printf("selected %s", e.Label())
	})
	defer view.Teardown()

	ebiten.SetWindowTitle(fmt.Sprintf("pattamap - %s", cfg.Name))
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(view); err != nil {
		log.Fatal(err)
	}
}

// demoEntities fills the zone with sample venues and a couple of
// independent workers so the editor can be exercised without a backend.
func demoEntities(cfg zonemap.Config) []zonemap.Entity {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- demo data only
	palette := []color.RGBA{
		{R: 214, G: 69, B: 93, A: 255},
		{R: 86, G: 124, B: 214, A: 255},
		{R: 222, G: 152, B: 60, A: 255},
		{R: 104, G: 182, B: 110, A: 255},
		{R: 164, G: 98, B: 202, A: 255},
	}
	var out []zonemap.Entity
	n := 0
	for col := 1; col <= cfg.MaxCols; col += 2 {
		for row := 1; row <= cfg.MaxRows; row++ {
			n++
			out = append(out, zonemap.Entity{
				ID:    fmt.Sprintf("venue-%d", n),
				Name:  fmt.Sprintf("Venue %d", n),
				Kind:  zonemap.KindVenue,
				Cell:  zonemap.Cell{Row: row, Col: col},
				Color: palette[rng.Intn(len(palette))],
			})
		}
	}
	out = append(out, zonemap.Entity{
		ID:    "worker-1",
		Name:  "Nok",
		Kind:  zonemap.KindWorker,
		Cell:  zonemap.Cell{Row: 1, Col: 2},
		Color: color.RGBA{R: 240, G: 210, B: 90, A: 255},
	})
	return out
}
