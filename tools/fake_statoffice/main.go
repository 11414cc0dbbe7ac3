// Command fake_statoffice serves a small JSON-stat dataset shaped like the
// statistical office weekly fuel price API, for local development without
// hitting the real service.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"travelorder-cloud/internal/pricing/infrastructure/statoffice"
)

type dimension struct {
	Category struct {
		Index map[string]int    `json:"index"`
		Label map[string]string `json:"label"`
	} `json:"category"`
}

type dataset struct {
	ID        []string             `json:"id"`
	Size      []int                `json:"size"`
	Dimension map[string]dimension `json:"dimension"`
	Value     []*float64           `json:"value"`
}

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	addr := flag.String("addr", ":9090", "listen address")
	diesel := flag.Float64("diesel", 1.45, "diesel price")
	benzin := flag.Float64("benzin", 1.62, "benzin 95 price")
	lpg := flag.Float64("lpg", 0.78, "lpg price")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 1 {
			http.NotFound(w, r)
			return
		}
		weekCode := parts[0]
		if _, _, err := statoffice.ParseWeekCode(weekCode); err != nil {
			http.NotFound(w, r)
			return
		}
		// Pretend weeks in the future are unpublished.
		if weekCode > statoffice.WeekCode(time.Now().UTC()) {
			http.NotFound(w, r)
			return
		}

		logger.Printf("serving week %s", weekCode)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildDataset(weekCode, *diesel, *benzin, *lpg))
	})

	logger.Printf("fake statoffice listening on %s", *addr)
	logger.Fatal(http.ListenAndServe(*addr, mux))
}

func buildDataset(weekCode string, diesel, benzin, lpg float64) dataset {
	var weekDim, indicatorDim dimension
	weekDim.Category.Index = map[string]int{weekCode: 0}
	weekDim.Category.Label = map[string]string{weekCode: "week " + weekCode}
	indicatorDim.Category.Index = map[string]int{
		"FR02011": 0,
		"FR02012": 1,
		"FR02016": 2,
	}
	indicatorDim.Category.Label = map[string]string{
		"FR02011": "Natural 95 oktanovy benzin",
		"FR02012": "Motorova nafta",
		"FR02016": "LPG skvapalneny plyn",
	}

	return dataset{
		ID:   []string{"sp0207ts_tyz", "sp0207ts_ukaz"},
		Size: []int{1, 3},
		Dimension: map[string]dimension{
			"sp0207ts_tyz":  weekDim,
			"sp0207ts_ukaz": indicatorDim,
		},
		Value: []*float64{&benzin, &diesel, &lpg},
	}
}
